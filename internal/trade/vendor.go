// Package trade implements the vendor transaction operator: pricing,
// currency debit and credit, buy, sell and the buyback (rollback) pool.
package trade

import "tradepost/internal/inventory"

// Vendor is the runtime state of one open vendor. Stock holds what the
// vendor sells; Rollback holds what the player sold and may buy back.
type Vendor struct {
	Stock    *inventory.Inventory
	Rollback *inventory.Inventory

	// Prices is the vendor's price list for Stock, keyed by item.
	// Items missing from it sell at the stack's own price.
	Prices map[inventory.ItemID]int

	// LimitedStock makes Stock deplete as it is bought.
	LimitedStock bool
	// AllowRollback keeps sold items in Rollback for buyback.
	AllowRollback bool

	open         bool
	rollbackView bool
}

// NewVendor wires a vendor around its two inventories. rollback may be
// nil when allowRollback is false.
func NewVendor(stock, rollback *inventory.Inventory, prices map[inventory.ItemID]int, limitedStock, allowRollback bool) *Vendor {
	if prices == nil {
		prices = make(map[inventory.ItemID]int)
	}
	return &Vendor{
		Stock:         stock,
		Rollback:      rollback,
		Prices:        prices,
		LimitedStock:  limitedStock,
		AllowRollback: allowRollback && rollback != nil,
	}
}

func (v *Vendor) IsOpen() bool { return v.open }

// RollbackViewOpen reports whether the buyback pool is on display instead of the stock.
func (v *Vendor) RollbackViewOpen() bool { return v.rollbackView }

// View returns the inventory currently on display.
func (v *Vendor) View() *inventory.Inventory {
	if v.rollbackView {
		return v.Rollback
	}
	return v.Stock
}

// Owns reports whether inv is one of the vendor's inventories.
func (v *Vendor) Owns(inv *inventory.Inventory) bool {
	return inv != nil && (inv == v.Stock || inv == v.Rollback)
}

// PriceOf returns the unit price the vendor asks for a stock item.
func (v *Vendor) PriceOf(s inventory.ItemStack) int {
	if p, ok := v.Prices[s.Item]; ok {
		return p
	}
	return s.Price
}
