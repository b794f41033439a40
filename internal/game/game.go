// Package game is the inventory engine facade: it owns the player's main
// inventory, opens and closes vendors and storages, routes player actions to
// the transfer and trade operators, and persists inventories on close.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"tradepost/assets"
	"tradepost/internal/component"
	"tradepost/internal/config"
	"tradepost/internal/ecs"
	"tradepost/internal/generate"
	"tradepost/internal/inventory"
	"tradepost/internal/store"
	"tradepost/internal/trade"
)

// MainInventory is the save name of the player's own inventory.
const MainInventory = component.MainInventory

const (
	maxMessages = 50
	saveTimeout = 5 * time.Second
)

type paneKind uint8

const (
	paneObjects paneKind = iota
	paneInventory
)

// pane is one stop in the panel-navigation chain.
type pane struct {
	kind   paneKind
	inv    *inventory.Inventory
	title  string
	cursor int
}

// mark is the source half of a two-step move.
type mark struct {
	inv  *inventory.Inventory
	slot int
}

// Game is one player's session.
type Game struct {
	cfg     config.Config
	catalog *assets.Catalog
	world   *ecs.World
	store   *store.Store
	bus     *inventory.Bus
	logger  *slog.Logger
	rng     *rand.Rand
	keys    Keymap

	main    *inventory.Inventory
	desk    *trade.Desk
	objects []ecs.EntityID

	open    ecs.EntityID
	storage *inventory.Inventory
	// unwatch cancels the open container's change subscriptions.
	unwatch []func()

	objectsPane *pane
	mainPane    *pane
	panes       []*pane
	focus       int
	pending     *mark
	messages    []string
}

// New spawns the catalog's world objects and loads the player's main
// inventory from st, seeding it with the starting kit when no save exists.
func New(cfg config.Config, cat *assets.Catalog, st *store.Store, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.Default()
	}
	def, ok := cat.Item(cfg.Currency)
	if !ok {
		return nil, fmt.Errorf("game: currency %q is not in the catalog", cfg.Currency)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:     cfg,
		catalog: cat,
		world:   ecs.NewWorld(),
		store:   st,
		bus:     inventory.NewBus(),
		logger:  logger,
		rng:     rand.New(rand.NewSource(seed)),
		keys:    NewKeymap(cfg.Keys),
	}
	spawned := cat.Spawn(g.world)
	g.objects = g.world.Query(component.CRenderable)
	g.main = inventory.New(MainInventory, cfg.Main.Columns, cfg.Main.Rows, g.bus)

	disabled := make([]inventory.ItemID, 0, len(cfg.DisabledItems))
	for _, id := range cfg.DisabledItems {
		disabled = append(disabled, inventory.ItemID(id))
	}
	g.desk = trade.NewDesk(g.main, trade.Currency{Item: def.ID, MaxStack: def.MaxStack}, disabled, logger)

	g.bus.SubscribeAll(func(e inventory.Event) {
		logger.Debug("game: event", "kind", e.Kind, "inventory", e.Inventory, "item", e.Item, "slot", e.Slot, "op", e.Op)
	})
	g.bus.Subscribe(MainInventory, g.onChange(g.main))

	if cfg.BackupOnStart {
		dst := filepath.Join(filepath.Dir(st.Dir()), "backup-"+time.Now().Format("20060102-150405"))
		if err := st.Backup(dst); err != nil {
			logger.Warn("game: backup failed", "error", err)
		}
	}
	if g.restore(g.main) {
		g.applyStartingKit()
	}

	g.objectsPane = &pane{kind: paneObjects, title: "World"}
	g.mainPane = &pane{kind: paneInventory, inv: g.main, title: "Inventory"}
	g.detach()
	logger.Info("game: session started", "objects", len(spawned), "save_dir", st.Dir(), "seed", seed)
	return g, nil
}

// restore loads inv from the store and reports whether it is fresh, i.e.
// had no usable save and still needs its initial content.
func (g *Game) restore(inv *inventory.Inventory) bool {
	if !g.store.Exists(inv.Name()) {
		return true
	}
	err := g.store.Load(inv)
	switch {
	case err == nil:
		return false
	case errors.Is(err, store.ErrNoSave):
		return true
	default:
		g.logger.Warn("game: load failed", "inventory", inv.Name(), "error", err)
		g.notify("Could not read the save of %s.", inv.Name())
		return true
	}
}

func (g *Game) applyStartingKit() {
	_ = inventory.Atomic(func() error {
		for _, k := range g.cfg.StartingKit {
			def, ok := g.catalog.Item(k.Item)
			if !ok || k.Quantity < 1 {
				continue
			}
			s := inventory.ItemStack{Item: def.ID, Quantity: k.Quantity, MaxStack: max(def.MaxStack, 1), Price: def.Price}
			if !g.main.AddItem(s) {
				g.logger.Warn("game: starting kit does not fit", "item", def.ID, "quantity", k.Quantity)
			}
		}
		if g.cfg.StartingCash > 0 && !trade.AddCurrency(g.main, g.desk.Currency(), g.cfg.StartingCash) {
			g.logger.Warn("game: starting cash does not fit", "amount", g.cfg.StartingCash)
		}
		return nil
	}, g.main)
}

// Main returns the player's inventory.
func (g *Game) Main() *inventory.Inventory { return g.main }

// Bus returns the notification channel all inventories publish on.
func (g *Game) Bus() *inventory.Bus { return g.bus }

func (g *Game) World() *ecs.World { return g.world }

// Objects lists the vendors and storages the player can open.
func (g *Game) Objects() []ecs.EntityID { return g.objects }

// Desk exposes the trade state of the open vendor.
func (g *Game) Desk() *trade.Desk { return g.desk }

// OpenObject is the world object currently open, or ecs.NilEntity.
func (g *Game) OpenObject() ecs.EntityID { return g.open }

// Container returns the inventory shown next to the main inventory: the
// storage, or the vendor's stock or buyback pool.
func (g *Game) Container() *inventory.Inventory {
	if v := g.desk.Vendor(); v != nil {
		return v.View()
	}
	return g.storage
}

// Messages returns the message log, oldest first.
func (g *Game) Messages() []string { return g.messages }

func (g *Game) notify(format string, args ...any) {
	g.messages = append(g.messages, fmt.Sprintf(format, args...))
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}

// ─── open / close ─────────────────────────────────────────────────────────────

// Open opens the vendor or storage id, closing whatever was open before.
func (g *Game) Open(id ecs.EntityID) bool {
	if !g.world.Alive(id) {
		return false
	}
	switch {
	case g.world.Has(id, component.CVendor):
		return g.OpenVendor(id)
	case g.world.Has(id, component.CStorage):
		return g.OpenStorage(id)
	}
	return false
}

// OpenVendor loads the vendor's stock and buyback pool, stocking a fresh
// vendor from its contents list.
func (g *Game) OpenVendor(id ecs.EntityID) bool {
	c, ok := g.world.Get(id, component.CVendor).(component.Vendor)
	if !ok {
		return false
	}
	g.Close()

	stock := inventory.New(c.StockName, c.Stock.Columns, c.Stock.Rows, g.bus)
	if g.restore(stock) {
		n := generate.StockVendor(stock, c.Contents, c.LimitedStock)
		g.logger.Debug("game: vendor stocked", "vendor", c.StockName, "stacks", n)
	}
	var rollback *inventory.Inventory
	if c.AllowRollback {
		rollback = inventory.New(c.RollbackName, c.RollbackGrid.Columns, c.RollbackGrid.Rows, g.bus)
		g.restore(rollback)
	}

	g.desk.Open(trade.NewVendor(stock, rollback, component.Prices(c.Contents), c.LimitedStock, c.AllowRollback))
	g.open = id
	g.attach(stock, c.Title)
	if rollback != nil {
		g.watch(rollback)
	}
	g.notify("You greet %s.", c.Title)
	g.logger.Info("game: vendor opened", "vendor", c.StockName, "title", c.Title)
	return true
}

// OpenStorage loads the storage, filling it from its loot table the first
// time it is opened.
func (g *Game) OpenStorage(id ecs.EntityID) bool {
	c, ok := g.world.Get(id, component.CStorage).(component.Storage)
	if !ok {
		return false
	}
	g.Close()

	inv := inventory.New(c.Name, c.Grid.Columns, c.Grid.Rows, g.bus)
	if g.restore(inv) && c.UseLoot && !c.Loot.Empty() {
		n := generate.PopulateFromLoot(inv, c.Loot, g.rng)
		g.logger.Debug("game: storage looted", "storage", c.Name, "stacks", n)
	}

	g.storage = inv
	g.open = id
	g.attach(inv, c.Title)
	g.notify("You open the %s.", c.Title)
	g.logger.Info("game: storage opened", "storage", c.Name, "title", c.Title)
	return true
}

// Close saves the main inventory and the open container, then detaches the
// container from the panel chain. Closing with nothing open is a no-op.
func (g *Game) Close() {
	if g.open == ecs.NilEntity {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := g.persist(ctx); err != nil {
		g.logger.Error("game: save failed", "error", err)
		g.notify("Saving failed: %v", err)
	}
	g.desk.Close()
	g.detach()
}

// Shutdown saves everything still loaded and closes the open container.
func (g *Game) Shutdown(ctx context.Context) error {
	err := g.persist(ctx)
	g.desk.Close()
	g.detach()
	if err != nil {
		return fmt.Errorf("game: shutdown: %w", err)
	}
	g.logger.Info("game: session saved")
	return nil
}

func (g *Game) persist(ctx context.Context) error {
	invs := []*inventory.Inventory{g.main, g.storage}
	if v := g.desk.Vendor(); v != nil {
		invs = append(invs, v.Stock, v.Rollback)
	}
	return g.store.SaveAll(ctx, invs...)
}

// DeleteSaves removes the save files of world object id. An open object is
// closed first without saving. The object itself stays in the world.
func (g *Game) DeleteSaves(id ecs.EntityID) error {
	var c ecs.Component
	switch {
	case g.world.Has(id, component.CVendor):
		c = g.world.Get(id, component.CVendor)
	case g.world.Has(id, component.CStorage):
		c = g.world.Get(id, component.CStorage)
	default:
		return fmt.Errorf("game: entity %d has no inventory", id)
	}
	if g.open == id {
		g.desk.Close()
		g.detach()
	}
	names := component.SaveNames(c)
	if err := g.store.Delete(names...); err != nil {
		g.logger.Error("game: delete saves failed", "names", names, "error", err)
		return err
	}
	g.logger.Info("game: saves deleted", "names", names)
	return nil
}

// attach appends the container to the panel chain and focuses it.
func (g *Game) attach(inv *inventory.Inventory, title string) {
	g.pending = nil
	g.panes = []*pane{g.objectsPane, g.mainPane, {kind: paneInventory, inv: inv, title: title}}
	g.focus = len(g.panes) - 1
	g.watch(inv)
	g.bus.Publish(inventory.Event{Kind: inventory.InventoryOpens, Inventory: inv.Name(), Slot: inventory.NoSlot})
}

// watch follows inv's changes until the container is detached.
func (g *Game) watch(inv *inventory.Inventory) {
	g.unwatch = append(g.unwatch, g.bus.Subscribe(inv.Name(), g.onChange(inv)))
}

// onChange drops a pending move whose source stack is gone, whether it was
// sold, bought or emptied by any other operation.
func (g *Game) onChange(inv *inventory.Inventory) func(inventory.Event) {
	return func(e inventory.Event) {
		if e.Kind != inventory.ContentChanged {
			return
		}
		if m := g.pending; m != nil && m.inv == inv {
			if _, ok := inv.At(m.slot); !ok {
				g.pending = nil
				g.logger.Debug("game: pending move dropped", "inventory", inv.Name(), "slot", m.slot)
			}
		}
	}
}

func (g *Game) detach() {
	for _, cancel := range g.unwatch {
		cancel()
	}
	g.unwatch = nil
	g.open = ecs.NilEntity
	g.storage = nil
	g.pending = nil
	g.panes = []*pane{g.objectsPane, g.mainPane}
	g.focus = min(g.focus, len(g.panes)-1)
}

// ─── transfer ─────────────────────────────────────────────────────────────────

// tradeOnly reports whether inv belongs to the open vendor. Vendor
// inventories only change through Buy and Sell.
func (g *Game) tradeOnly(inv *inventory.Inventory) bool {
	v := g.desk.Vendor()
	return v != nil && v.Owns(inv)
}

// Transfer moves the stack at src[srcSlot] onto dst[dstSlot].
func (g *Game) Transfer(src *inventory.Inventory, srcSlot int, dst *inventory.Inventory, dstSlot int) inventory.Outcome {
	if g.tradeOnly(src) || g.tradeOnly(dst) {
		return inventory.Noop
	}
	return inventory.Transfer(src, srcSlot, dst, dstSlot)
}

// Split halves the stack at inv[slot].
func (g *Game) Split(inv *inventory.Inventory, slot int) inventory.Outcome {
	if g.tradeOnly(inv) {
		return inventory.Noop
	}
	return inventory.Split(inv, slot)
}

// ─── trade ────────────────────────────────────────────────────────────────────

// ToggleVendorView swaps the container panel between the vendor's stock and
// its buyback pool.
func (g *Game) ToggleVendorView() bool {
	if !g.desk.ToggleView() {
		return false
	}
	v := g.desk.Vendor()
	c, _ := g.world.Get(g.open, component.CVendor).(component.Vendor)
	p := g.panes[len(g.panes)-1]
	p.inv = v.View()
	p.cursor = 0
	p.title = c.Title
	if v.RollbackViewOpen() {
		p.title = c.RollbackTitle
	}
	g.pending = nil
	return true
}

// Select points the selection at inv[slot] and, with a vendor open, quotes
// the stack there.
func (g *Game) Select(inv *inventory.Inventory, slot int) bool {
	if !inv.Valid(slot) {
		return false
	}
	s, _ := inv.At(slot)
	g.bus.Publish(inventory.Event{Kind: inventory.Select, Inventory: inv.Name(), Item: s.Item, Slot: slot, Quantity: s.Quantity})
	if g.desk.Vendor() == nil {
		return false
	}
	return g.desk.Select(inv, slot)
}

func (g *Game) Buy() bool {
	if !g.desk.Buy() {
		if g.desk.Quote().Active() {
			g.notify("You cannot buy that.")
		}
		return false
	}
	r := g.desk.Receipt()
	g.notify("Bought %s x%d for %d.", g.itemName(r.Item), r.Quantity, r.Price)
	return true
}

func (g *Game) Sell() bool {
	if !g.desk.Sell() {
		if g.desk.Quote().Active() {
			g.notify("You cannot sell that.")
		}
		return false
	}
	r := g.desk.Receipt()
	g.notify("Sold %s x%d for %d.", g.itemName(r.Item), r.Quantity, r.Price)
	return true
}

func (g *Game) Increase() bool { return g.desk.Increase() }
func (g *Game) Decrease() bool { return g.desk.Decrease() }

// Cash is the currency the player carries.
func (g *Game) Cash() int { return g.desk.Cash() }

func (g *Game) itemName(id inventory.ItemID) string {
	if def, ok := g.catalog.Item(string(id)); ok {
		return def.Name
	}
	return string(id)
}
