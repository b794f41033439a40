// Package generate seeds container inventories the first time they are
// opened: storages from their loot table, vendors from their catalog.
package generate

import (
	"math/rand"

	"tradepost/internal/component"
	"tradepost/internal/factory"
	"tradepost/internal/inventory"
)

// PopulateFromLoot fills inv from loot and returns the number of stacks
// placed. Deterministic tables place every entry in order until inv is
// full. Random tables use rng; see populateRandom.
func PopulateFromLoot(inv *inventory.Inventory, loot component.Loot, rng *rand.Rand) int {
	if inv == nil || loot.Empty() {
		return 0
	}
	placed := 0
	_ = inventory.Atomic(func() error {
		if loot.Random {
			placed = populateRandom(inv, loot, rng)
		} else {
			placed = populateOrdered(inv, loot.Entries)
		}
		return nil
	}, inv)
	return placed
}

func populateOrdered(inv *inventory.Inventory, entries []component.LootEntry) int {
	placed := 0
	for _, e := range entries {
		slot := inv.FirstFreeSlot()
		if slot == inventory.NoSlot {
			break
		}
		if inv.Put(slot, factory.NewStack(e.Item, e.Quantity)) {
			placed++
		}
	}
	return placed
}

// populateRandom draws 1..MaxItems entries with replacement. Each draw is
// kept when a roll in [0,100) is at most the entry's drop chance; its
// quantity is rolled in [1, MaxQuantity] and capped at the item's max stack.
// Every kept draw takes the next free slot.
func populateRandom(inv *inventory.Inventory, loot component.Loot, rng *rand.Rand) int {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	picks := 1 + rng.Intn(max(loot.MaxItems, 1))
	placed := 0
	for range picks {
		slot := inv.FirstFreeSlot()
		if slot == inventory.NoSlot {
			break
		}
		e := loot.Entries[rng.Intn(len(loot.Entries))]
		if rng.Intn(100) > e.DropChance {
			continue
		}
		upper := e.MaxQuantity
		if upper < 1 {
			upper = e.Quantity
		}
		qty := 1 + rng.Intn(max(upper, 1))
		if inv.Put(slot, factory.NewStack(e.Item, qty)) {
			placed++
		}
	}
	return placed
}

// StockVendor fills a vendor's stock from its catalog, one stack per entry
// in order until the inventory is full. Limited stock starts at the
// entry's quantity capped to the max stack; unlimited stock shows a single
// item per entry because it never depletes.
func StockVendor(inv *inventory.Inventory, entries []component.VendorEntry, limited bool) int {
	if inv == nil {
		return 0
	}
	placed := 0
	_ = inventory.Atomic(func() error {
		for _, e := range entries {
			slot := inv.FirstFreeSlot()
			if slot == inventory.NoSlot {
				break
			}
			qty := 1
			if limited {
				qty = e.Quantity
			}
			if inv.Put(slot, factory.NewStack(e.Item, qty)) {
				placed++
			}
		}
		return nil
	}, inv)
	return placed
}
