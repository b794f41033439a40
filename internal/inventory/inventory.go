// Package inventory implements slot-addressed item storage and the transfer
// operator that moves, merges, swaps and splits stacks between inventories.
//
// Operations never fail loudly: an invalid slot, an empty source or a lack
// of room turns the call into a no-op that mutates nothing and publishes
// nothing. Every operation that does mutate publishes exactly one
// ContentChanged event per inventory it touched, after the mutation.
package inventory

import "github.com/google/uuid"

// Inventory is a fixed-capacity grid of optional item stacks.
// Capacity is columns*rows and never changes after New.
type Inventory struct {
	name    string
	columns int
	rows    int
	slots   []*ItemStack
	bus     *Bus

	// hold > 0 while an Atomic operation is running; changes are then
	// coalesced into one ContentChanged published when the hold is released.
	hold  int
	dirty bool
	op    uuid.UUID
}

// New creates an empty inventory. Non-positive dimensions are raised to 1.
func New(name string, columns, rows int, bus *Bus) *Inventory {
	columns = max(columns, 1)
	rows = max(rows, 1)
	return &Inventory{
		name:    name,
		columns: columns,
		rows:    rows,
		slots:   make([]*ItemStack, columns*rows),
		bus:     bus,
	}
}

func (inv *Inventory) Name() string  { return inv.name }
func (inv *Inventory) Columns() int  { return inv.columns }
func (inv *Inventory) Rows() int     { return inv.rows }
func (inv *Inventory) Capacity() int { return len(inv.slots) }

// Valid reports whether slot addresses this inventory.
func (inv *Inventory) Valid(slot int) bool {
	return inv != nil && slot >= 0 && slot < len(inv.slots)
}

// At returns a copy of the stack in slot. ok is false for empty or invalid slots.
func (inv *Inventory) At(slot int) (stack ItemStack, ok bool) {
	if !inv.Valid(slot) || inv.slots[slot] == nil {
		return ItemStack{}, false
	}
	return *inv.slots[slot], true
}

// FirstFreeSlot returns the lowest-index empty slot, or NoSlot.
func (inv *Inventory) FirstFreeSlot() int {
	for i, s := range inv.slots {
		if s == nil {
			return i
		}
	}
	return NoSlot
}

// FreeSlots counts empty slots.
func (inv *Inventory) FreeSlots() int {
	n := 0
	for _, s := range inv.slots {
		if s == nil {
			n++
		}
	}
	return n
}

// Count sums the quantity of every stack of item.
func (inv *Inventory) Count(item ItemID) int {
	total := 0
	for _, s := range inv.slots {
		if s != nil && s.Item == item {
			total += s.Quantity
		}
	}
	return total
}

// Slots returns a deep copy of the content, one entry per slot.
func (inv *Inventory) Slots() []*ItemStack {
	out := make([]*ItemStack, len(inv.slots))
	for i, s := range inv.slots {
		out[i] = s.clone()
	}
	return out
}

// Load replaces the whole content with slots, as read back from a save.
// Entries past capacity and invalid stacks are dropped. Publishes Redraw.
func (inv *Inventory) Load(slots []*ItemStack) {
	fresh := make([]*ItemStack, len(inv.slots))
	for i, s := range slots {
		if i >= len(fresh) {
			break
		}
		if s != nil && s.Valid() {
			fresh[i] = s.clone()
		}
	}
	inv.slots = fresh
	inv.bus.Publish(Event{Kind: Redraw, Inventory: inv.name, Slot: NoSlot})
}

// Put places stack into an empty slot.
func (inv *Inventory) Put(slot int, stack ItemStack) bool {
	if !inv.Valid(slot) || inv.slots[slot] != nil || !stack.Valid() {
		return false
	}
	inv.set(slot, &stack)
	return true
}

// Remove takes n items out of slot, emptying it when nothing is left.
func (inv *Inventory) Remove(slot, n int) bool {
	if !inv.Valid(slot) || inv.slots[slot] == nil || n < 1 {
		return false
	}
	s := inv.slots[slot]
	if n >= s.Quantity {
		inv.set(slot, nil)
		return true
	}
	next := s.WithQuantity(s.Quantity - n)
	inv.set(slot, &next)
	return true
}

// AddItem stores stack.Quantity items of stack.Item, topping up existing
// stacks of that item in slot order before opening new stacks in free
// slots. Quantity may exceed MaxStack; the overflow spreads over several
// slots. It is all-or-nothing: when the quantity does not fit, nothing is
// stored and AddItem returns false.
func (inv *Inventory) AddItem(stack ItemStack) bool {
	if stack.Item == "" || stack.MaxStack < 1 || stack.Quantity < 1 {
		return false
	}
	if inv.roomFor(stack) < stack.Quantity {
		return false
	}
	rest := stack.Quantity
	for i, s := range inv.slots {
		if rest == 0 {
			break
		}
		if s == nil || s.Item != stack.Item || s.Room() == 0 {
			continue
		}
		take := min(rest, s.Room())
		next := s.WithQuantity(s.Quantity + take)
		inv.set(i, &next)
		rest -= take
	}
	for i, s := range inv.slots {
		if rest == 0 {
			break
		}
		if s != nil {
			continue
		}
		take := min(rest, stack.MaxStack)
		next := stack.WithQuantity(take)
		inv.set(i, &next)
		rest -= take
	}
	return true
}

func (inv *Inventory) roomFor(stack ItemStack) int {
	room := 0
	for _, s := range inv.slots {
		switch {
		case s == nil:
			room += stack.MaxStack
		case s.Item == stack.Item:
			room += s.Room()
		}
	}
	return room
}

func (inv *Inventory) set(slot int, s *ItemStack) {
	inv.slots[slot] = s
	inv.changed()
}

func (inv *Inventory) changed() {
	if inv.hold > 0 {
		inv.dirty = true
		return
	}
	inv.bus.Publish(Event{Kind: ContentChanged, Inventory: inv.name, Slot: NoSlot, Op: uuid.New()})
}

func (inv *Inventory) begin(op uuid.UUID) {
	if inv.hold == 0 {
		inv.op = op
		inv.dirty = false
	}
	inv.hold++
}

func (inv *Inventory) end() {
	inv.hold--
	if inv.hold > 0 || !inv.dirty {
		return
	}
	inv.dirty = false
	inv.bus.Publish(Event{Kind: ContentChanged, Inventory: inv.name, Slot: NoSlot, Op: inv.op})
}

// Atomic runs fn as a single operation over invs. Mutations made by fn are
// kept only when it returns nil; on error every listed inventory is
// restored to its prior content. Each listed inventory that changed
// publishes one ContentChanged when fn finishes, all sharing one Op.
// Nil and repeated inventories in invs are ignored.
func Atomic(fn func() error, invs ...*Inventory) error {
	invs = distinct(invs)
	op := uuid.New()
	before := make([][]*ItemStack, len(invs))
	for i, inv := range invs {
		before[i] = inv.Slots()
		inv.begin(op)
	}
	err := fn()
	for i, inv := range invs {
		if err != nil {
			inv.slots = before[i]
			if inv.hold == 1 {
				inv.dirty = false
			}
		}
		inv.end()
	}
	return err
}

func distinct(invs []*Inventory) []*Inventory {
	out := make([]*Inventory, 0, len(invs))
	for _, inv := range invs {
		if inv == nil {
			continue
		}
		seen := false
		for _, o := range out {
			if o == inv {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, inv)
		}
	}
	return out
}
