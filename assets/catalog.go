package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tradepost/internal/component"
	"tradepost/internal/ecs"
	"tradepost/internal/factory"
	"tradepost/internal/inventory"
)

//go:embed world.yaml
var worldYAML []byte

// Glyphs used when a catalog entry gives none.
const (
	GlyphVendor  = "🧙"
	GlyphStorage = "📦"
)

// Containers default to 2x4, the size of a small chest.
const (
	defaultColumns = 2
	defaultRows    = 4
)

type ItemDef struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Glyph    string `yaml:"glyph"`
	MaxStack int    `yaml:"max_stack"`
	Price    int    `yaml:"price"`
}

// VendorContent is one line of a vendor's catalog. Quantity only matters
// for limited stock.
type VendorContent struct {
	Item     string `yaml:"item"`
	Price    int    `yaml:"price"`
	Quantity int    `yaml:"quantity"`
}

// VendorDef describes a vendor. An empty Name is derived from the
// vendor's position.
type VendorDef struct {
	Name            string          `yaml:"name"`
	Title           string          `yaml:"title"`
	RollbackTitle   string          `yaml:"rollback_title"`
	Glyph           string          `yaml:"glyph"`
	Scene           string          `yaml:"scene"`
	X               int             `yaml:"x"`
	Y               int             `yaml:"y"`
	Columns         int             `yaml:"columns"`
	Rows            int             `yaml:"rows"`
	LimitedStock    bool            `yaml:"limited_stock"`
	AllowRollback   bool            `yaml:"allow_rollback"`
	RollbackColumns int             `yaml:"rollback_columns"`
	RollbackRows    int             `yaml:"rollback_rows"`
	Contents        []VendorContent `yaml:"contents"`
}

// LootDef is one line of a storage's loot table. Quantity is used by
// ordered tables; MaxQuantity and DropChance by random ones.
type LootDef struct {
	Item        string `yaml:"item"`
	Quantity    int    `yaml:"quantity"`
	MaxQuantity int    `yaml:"max_quantity"`
	DropChance  int    `yaml:"drop_chance"`
}

type StorageDef struct {
	Name       string    `yaml:"name"`
	Title      string    `yaml:"title"`
	Glyph      string    `yaml:"glyph"`
	Scene      string    `yaml:"scene"`
	X          int       `yaml:"x"`
	Y          int       `yaml:"y"`
	Columns    int       `yaml:"columns"`
	Rows       int       `yaml:"rows"`
	UseLoot    bool      `yaml:"use_loot"`
	RandomLoot bool      `yaml:"random_loot"`
	MaxItems   int       `yaml:"max_items"`
	Loot       []LootDef `yaml:"loot"`
}

// Catalog is the parsed world file.
type Catalog struct {
	Items    []ItemDef    `yaml:"items"`
	Vendors  []VendorDef  `yaml:"vendors"`
	Storages []StorageDef `yaml:"storages"`

	byID map[string]ItemDef
}

// Default returns the embedded harbor catalog.
func Default() (*Catalog, error) {
	return Parse(worldYAML)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	var errs []error
	c.byID = make(map[string]ItemDef, len(c.Items))
	for _, it := range c.Items {
		switch {
		case it.ID == "":
			errs = append(errs, errors.New("item without id"))
		case it.MaxStack < 1:
			errs = append(errs, fmt.Errorf("item %s: max_stack must be at least 1", it.ID))
		case it.Price < 0:
			errs = append(errs, fmt.Errorf("item %s: negative price", it.ID))
		}
		if _, dup := c.byID[it.ID]; dup {
			errs = append(errs, fmt.Errorf("item %s defined twice", it.ID))
		}
		c.byID[it.ID] = it
	}

	names := map[string]bool{component.MainInventory: true}
	claim := func(name string) {
		switch {
		case name == "":
			return
		case name == "." || name == ".." || strings.ContainsAny(name, `/\`):
			errs = append(errs, fmt.Errorf("inventory name %q is not a valid file name", name))
		case names[name]:
			errs = append(errs, fmt.Errorf("inventory name %q is reserved or used twice", name))
		}
		names[name] = true
	}

	for i, v := range c.Vendors {
		claim(v.Name)
		if v.Name != "" {
			claim(v.Name + component.RollbackSuffix)
		}
		for _, e := range v.Contents {
			if _, ok := c.byID[e.Item]; !ok {
				errs = append(errs, fmt.Errorf("vendor %d: unknown item %q", i, e.Item))
			}
			if e.Price < 0 {
				errs = append(errs, fmt.Errorf("vendor %d: %s has a negative price", i, e.Item))
			}
		}
	}
	for i, s := range c.Storages {
		claim(s.Name)
		if s.RandomLoot && s.MaxItems < 1 {
			errs = append(errs, fmt.Errorf("storage %d: random loot needs max_items", i))
		}
		for _, l := range s.Loot {
			if _, ok := c.byID[l.Item]; !ok {
				errs = append(errs, fmt.Errorf("storage %d: unknown item %q", i, l.Item))
			}
			if s.RandomLoot && (l.DropChance < 1 || l.DropChance > 100) {
				errs = append(errs, fmt.Errorf("storage %d: %s drop_chance must be 1-100, got %d", i, l.Item, l.DropChance))
			}
		}
	}
	return errors.Join(errs...)
}

// Item returns the definition of id as a component.
func (c *Catalog) Item(id string) (component.ItemDef, bool) {
	it, ok := c.byID[id]
	if !ok {
		return component.ItemDef{}, false
	}
	return component.ItemDef{
		ID:       inventory.ItemID(it.ID),
		Name:     it.Name,
		Glyph:    it.Glyph,
		MaxStack: it.MaxStack,
		Price:    it.Price,
	}, true
}

func grid(columns, rows int) component.Grid {
	if columns < 1 {
		columns = defaultColumns
	}
	if rows < 1 {
		rows = defaultRows
	}
	return component.Grid{Columns: columns, Rows: rows}
}

func orDefault(glyph, fallback string) string {
	if glyph == "" {
		return fallback
	}
	return glyph
}

// Spawn creates one entity per vendor and storage in w and returns their
// ids in catalog order, vendors first.
func (c *Catalog) Spawn(w *ecs.World) []ecs.EntityID {
	var ids []ecs.EntityID
	for _, v := range c.Vendors {
		comp := component.Vendor{
			Title:         v.Title,
			RollbackTitle: v.RollbackTitle,
			StockName:     v.Name,
			Stock:         grid(v.Columns, v.Rows),
			RollbackGrid:  grid(v.RollbackColumns, v.RollbackRows),
			LimitedStock:  v.LimitedStock,
			AllowRollback: v.AllowRollback,
		}
		for _, e := range v.Contents {
			def, _ := c.Item(e.Item)
			comp.Contents = append(comp.Contents, component.VendorEntry{Item: def, Price: e.Price, Quantity: e.Quantity})
		}
		pos := component.Position{Scene: v.Scene, X: v.X, Y: v.Y}
		ids = append(ids, factory.NewVendor(w, pos, orDefault(v.Glyph, GlyphVendor), comp))
	}
	for _, s := range c.Storages {
		comp := component.Storage{
			Title:   s.Title,
			Name:    s.Name,
			Grid:    grid(s.Columns, s.Rows),
			UseLoot: s.UseLoot,
			Loot:    component.Loot{Random: s.RandomLoot, MaxItems: s.MaxItems},
		}
		for _, l := range s.Loot {
			def, _ := c.Item(l.Item)
			comp.Loot.Entries = append(comp.Loot.Entries, component.LootEntry{
				Item:        def,
				Quantity:    l.Quantity,
				MaxQuantity: l.MaxQuantity,
				DropChance:  l.DropChance,
			})
		}
		pos := component.Position{Scene: s.Scene, X: s.X, Y: s.Y}
		ids = append(ids, factory.NewStorage(w, pos, orDefault(s.Glyph, GlyphStorage), comp))
	}
	return ids
}
