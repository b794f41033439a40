package trade

import (
	"errors"
	"log/slog"

	"tradepost/internal/inventory"
)

var (
	errPayment   = errors.New("payment failed")
	errNoRoom    = errors.New("no free slot")
	errNoCredit  = errors.New("no room for currency")
	errNoBuyback = errors.New("no room in buyback pool")
)

// Quote is the pending buy or sell: a selected stack and the quantity the
// player has dialled in. Nothing moves until Buy or Sell confirms it.
type Quote struct {
	Source    *inventory.Inventory
	Slot      int
	Item      inventory.ItemID
	UnitPrice int
	Quantity  int
	Cap       int
}

// Active reports whether a stack is selected.
func (q Quote) Active() bool { return q.Source != nil }

// Total is the pending price.
func (q Quote) Total() int { return q.UnitPrice * q.Quantity }

// Adjustable reports whether the quantity stepper applies.
func (q Quote) Adjustable() bool { return q.Cap > 1 }

// Receipt records a completed trade: what moved and for how much.
type Receipt struct {
	Item     inventory.ItemID
	Quantity int
	Price    int
}

// Desk is one player's side of the counter. It holds the open vendor for
// the session and the pending quote.
type Desk struct {
	main     *inventory.Inventory
	currency Currency
	disabled map[inventory.ItemID]bool
	logger   *slog.Logger

	vendor  *Vendor
	quote   Quote
	receipt Receipt
}

// NewDesk binds a desk to the player's main inventory. Items in disabled
// can be neither bought nor sold.
func NewDesk(main *inventory.Inventory, currency Currency, disabled []inventory.ItemID, logger *slog.Logger) *Desk {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Desk{
		main:     main,
		currency: currency,
		disabled: make(map[inventory.ItemID]bool, len(disabled)),
		logger:   logger,
	}
	for _, id := range disabled {
		d.disabled[id] = true
	}
	return d
}

func (d *Desk) Vendor() *Vendor            { return d.vendor }
func (d *Desk) Quote() Quote               { return d.quote }
func (d *Desk) Currency() Currency         { return d.currency }
func (d *Desk) Main() *inventory.Inventory { return d.main }

// Receipt is the last trade that went through.
func (d *Desk) Receipt() Receipt { return d.receipt }

// Cash is the player's current cash.
func (d *Desk) Cash() int { return GetPlayerCash(d.main, d.currency.Item) }

// Disabled reports whether item is excluded from trading.
func (d *Desk) Disabled(item inventory.ItemID) bool { return d.disabled[item] }

// Open makes v the session's vendor, showing its stock.
func (d *Desk) Open(v *Vendor) {
	if d.vendor != nil {
		d.Close()
	}
	v.open = true
	v.rollbackView = false
	d.vendor = v
	d.quote = Quote{}
}

// Close detaches the vendor and drops the pending quote.
func (d *Desk) Close() {
	if d.vendor != nil {
		d.vendor.open = false
		d.vendor.rollbackView = false
	}
	d.vendor = nil
	d.quote = Quote{}
}

// ToggleView swaps between the stock and the buyback pool. It does nothing
// unless the open vendor allows rollback.
func (d *Desk) ToggleView() bool {
	v := d.vendor
	if v == nil || !v.AllowRollback {
		return false
	}
	v.rollbackView = !v.rollbackView
	d.quote = Quote{}
	return true
}

// Select quotes the stack at inv[slot] with quantity 1. The selection must
// be in the player's main inventory or the open vendor's inventories;
// anything else clears the quote.
func (d *Desk) Select(inv *inventory.Inventory, slot int) bool {
	d.quote = Quote{}
	if d.vendor == nil || (inv != d.main && !d.vendor.Owns(inv)) {
		return false
	}
	s, ok := inv.At(slot)
	if !ok {
		return false
	}
	unit, limit := d.terms(inv, s)
	d.quote = Quote{
		Source:    inv,
		Slot:      slot,
		Item:      s.Item,
		UnitPrice: unit,
		Quantity:  1,
		Cap:       limit,
	}
	return true
}

// terms returns the unit price and the largest quantity one transaction may
// move for stack s sitting in inv.
func (d *Desk) terms(inv *inventory.Inventory, s inventory.ItemStack) (unit, limit int) {
	v := d.vendor
	switch {
	case inv == v.Stock && v.LimitedStock:
		return v.PriceOf(s), s.Quantity
	case inv == v.Stock:
		return v.PriceOf(s), s.MaxStack
	default:
		return s.Price, s.Quantity
	}
}

// Increase raises the pending quantity by one, up to the cap.
func (d *Desk) Increase() bool {
	if !d.quote.Active() || d.quote.Quantity >= d.quote.Cap {
		return false
	}
	d.quote.Quantity++
	return true
}

// Decrease lowers the pending quantity by one, down to 1.
func (d *Desk) Decrease() bool {
	if !d.quote.Active() || d.quote.Quantity <= 1 {
		return false
	}
	d.quote.Quantity--
	return true
}

// Buy confirms the quote on a vendor stock or buyback stack. The player
// needs a free slot and enough cash for the pending price. The bought
// stack lands in the player's first free slot; buyback stacks always
// shrink, stock only shrinks under limited stock.
func (d *Desk) Buy() bool {
	v := d.vendor
	q := d.quote
	if v == nil || !v.IsOpen() || !q.Active() || !v.Owns(q.Source) {
		return false
	}
	if q.Source == v.Rollback && !v.AllowRollback {
		return false
	}
	s, ok := q.Source.At(q.Slot)
	if !ok || s.Item != q.Item || d.disabled[s.Item] {
		return false
	}
	unit, limit := d.terms(q.Source, s)
	qty := min(max(q.Quantity, 1), limit)
	price := unit * qty
	if d.main.FreeSlots() == 0 || d.Cash() < price {
		return false
	}

	bought := s.WithQuantity(qty)
	depletes := q.Source == v.Rollback || v.LimitedStock
	err := inventory.Atomic(func() error {
		if !PayForItem(d.main, d.currency.Item, price) {
			return errPayment
		}
		slot := d.main.FirstFreeSlot()
		if !d.main.Put(slot, bought) {
			return errNoRoom
		}
		if depletes {
			q.Source.Remove(q.Slot, qty)
		}
		return nil
	}, d.main, q.Source)
	if err != nil {
		d.logger.Debug("trade: buy aborted", "item", s.Item, "quantity", qty, "error", err)
		return false
	}
	d.receipt = Receipt{Item: s.Item, Quantity: qty, Price: price}
	d.logger.Info("trade: bought", "item", s.Item, "quantity", qty, "price", price, "from", q.Source.Name())
	d.Select(q.Source, q.Slot)
	return true
}

// Sell confirms the quote on a stack in the player's main inventory. The
// player is credited unit price times quantity; with rollback enabled the
// sold items move to the buyback pool. Either step failing for lack of room
// cancels the whole sale.
func (d *Desk) Sell() bool {
	v := d.vendor
	q := d.quote
	if v == nil || !v.IsOpen() || !q.Active() || q.Source != d.main {
		return false
	}
	s, ok := d.main.At(q.Slot)
	if !ok || s.Item != q.Item || d.disabled[s.Item] || s.Item == d.currency.Item {
		return false
	}
	qty := min(max(q.Quantity, 1), s.Quantity)
	price := s.Price * qty

	var pool *inventory.Inventory
	if v.AllowRollback {
		pool = v.Rollback
	}
	err := inventory.Atomic(func() error {
		if !AddCurrency(d.main, d.currency, price) {
			return errNoCredit
		}
		if pool != nil && !pool.AddItem(s.WithQuantity(qty)) {
			return errNoBuyback
		}
		d.main.Remove(q.Slot, qty)
		return nil
	}, d.main, pool)
	if err != nil {
		d.logger.Debug("trade: sell aborted", "item", s.Item, "quantity", qty, "error", err)
		return false
	}
	d.receipt = Receipt{Item: s.Item, Quantity: qty, Price: price}
	d.logger.Info("trade: sold", "item", s.Item, "quantity", qty, "price", price)
	d.Select(d.main, q.Slot)
	return true
}
