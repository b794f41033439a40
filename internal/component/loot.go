package component

import "tradepost/internal/inventory"

// LootEntry is one line of a storage's loot table.
type LootEntry struct {
	Item        ItemDef
	Quantity    int // deterministic quantity
	MaxQuantity int // upper bound of the random roll
	DropChance  int // 1–100
}

// Loot seeds a storage the first time it is opened.
type Loot struct {
	Entries  []LootEntry
	Random   bool
	MaxItems int
}

// Empty reports whether the table can produce anything.
func (l Loot) Empty() bool { return len(l.Entries) == 0 }

// VendorEntry is one line of a vendor's catalog.
type VendorEntry struct {
	Item     ItemDef
	Price    int
	Quantity int
}

// Prices returns the vendor price list keyed by item.
func Prices(entries []VendorEntry) map[inventory.ItemID]int {
	out := make(map[inventory.ItemID]int, len(entries))
	for _, e := range entries {
		out[e.Item.ID] = e.Price
	}
	return out
}
