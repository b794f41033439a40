package trade

import "tradepost/internal/inventory"

// Currency names the item that serves as money. Cash is never stored
// separately: it is whatever currency stacks the inventory happens to hold.
type Currency struct {
	Item     inventory.ItemID
	MaxStack int
}

func (c Currency) stack(amount int) inventory.ItemStack {
	return inventory.ItemStack{Item: c.Item, Quantity: amount, MaxStack: max(c.MaxStack, 1), Price: 1}
}

// GetPlayerCash sums every currency stack in inv.
func GetPlayerCash(inv *inventory.Inventory, currency inventory.ItemID) int {
	if inv == nil {
		return 0
	}
	return inv.Count(currency)
}

// PayForItem removes amount currency from inv, emptying or reducing
// currency stacks in slot order until the amount is covered. When inv
// holds less than amount nothing is removed and PayForItem returns false.
func PayForItem(inv *inventory.Inventory, currency inventory.ItemID, amount int) bool {
	if inv == nil || amount < 0 {
		return false
	}
	if amount == 0 {
		return true
	}
	if GetPlayerCash(inv, currency) < amount {
		return false
	}
	_ = inventory.Atomic(func() error {
		rest := amount
		for slot := 0; slot < inv.Capacity() && rest > 0; slot++ {
			s, ok := inv.At(slot)
			if !ok || s.Item != currency {
				continue
			}
			take := min(s.Quantity, rest)
			inv.Remove(slot, take)
			rest -= take
		}
		return nil
	}, inv)
	return true
}

// AddCurrency credits amount to inv, topping up existing currency stacks
// before opening new ones. It stores nothing and returns false when the
// whole amount does not fit.
func AddCurrency(inv *inventory.Inventory, c Currency, amount int) bool {
	if inv == nil || amount < 0 {
		return false
	}
	if amount == 0 {
		return true
	}
	return inv.AddItem(c.stack(amount))
}
