package component

import "tradepost/internal/ecs"

const (
	CVendor  ecs.ComponentType = 4
	CStorage ecs.ComponentType = 5
)

// MainInventory is the save name of the player's own inventory. No world
// object may use it.
const MainInventory = "main"

// RollbackSuffix turns a vendor's stock name into its buyback pool's name.
const RollbackSuffix = "-rollback"

// Grid is the shape of one inventory.
type Grid struct {
	Columns, Rows int
}

// Vendor describes a trader. Runtime inventories are created by the game
// when the vendor is opened; this component only holds what seeds them.
type Vendor struct {
	Title         string
	RollbackTitle string
	StockName     string
	RollbackName  string
	Stock         Grid
	RollbackGrid  Grid
	LimitedStock  bool
	AllowRollback bool
	Contents      []VendorEntry
}

func (Vendor) Type() ecs.ComponentType { return CVendor }

// Storage describes a lootable container.
type Storage struct {
	Title   string
	Name    string
	Grid    Grid
	UseLoot bool
	Loot    Loot
}

func (Storage) Type() ecs.ComponentType { return CStorage }

// SaveNames lists the inventory names a world object persists under.
func SaveNames(c ecs.Component) []string {
	switch c := c.(type) {
	case Vendor:
		if c.RollbackName == "" {
			return []string{c.StockName}
		}
		return []string{c.StockName, c.RollbackName}
	case Storage:
		return []string{c.Name}
	}
	return nil
}
