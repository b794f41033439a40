package inventory

// Outcome describes what a transfer or split did.
type Outcome uint8

const (
	Noop    Outcome = iota // nothing changed
	Moved                  // whole stack moved into an empty slot
	Merged                 // source fully merged into a same-item stack
	Spilled                // destination filled, remainder opened a new stack
	Partial                // destination filled, remainder left in the source
	Swapped                // two different items traded places
	Divided                // a stack was split in two
)

func (o Outcome) String() string {
	switch o {
	case Noop:
		return "noop"
	case Moved:
		return "moved"
	case Merged:
		return "merged"
	case Spilled:
		return "spilled"
	case Partial:
		return "partial"
	case Swapped:
		return "swapped"
	case Divided:
		return "divided"
	}
	return "unknown"
}

// Transfer moves the stack at src[srcSlot] onto dst[dstSlot]; src and dst
// may be the same inventory. An empty destination receives the whole
// stack. A destination of the same item absorbs as much as it has room
// for; any remainder goes to the first free slot of dst, or stays in the
// source when dst is full. A destination of a different item swaps places
// with the source.
func Transfer(src *Inventory, srcSlot int, dst *Inventory, dstSlot int) Outcome {
	if !src.Valid(srcSlot) || !dst.Valid(dstSlot) {
		return Noop
	}
	if src == dst && srcSlot == dstSlot {
		return Noop
	}
	if src.slots[srcSlot] == nil {
		return Noop
	}
	out := Noop
	_ = Atomic(func() error {
		out = transfer(src, srcSlot, dst, dstSlot)
		return nil
	}, src, dst)
	return out
}

func transfer(src *Inventory, srcSlot int, dst *Inventory, dstSlot int) Outcome {
	from := src.slots[srcSlot]
	to := dst.slots[dstSlot]

	if to == nil {
		src.set(srcSlot, nil)
		dst.set(dstSlot, from)
		return Moved
	}
	if to.Item != from.Item {
		src.set(srcSlot, to)
		dst.set(dstSlot, from)
		return Swapped
	}

	room := to.Room()
	if from.Quantity <= room {
		merged := to.WithQuantity(to.Quantity + from.Quantity)
		dst.set(dstSlot, &merged)
		src.set(srcSlot, nil)
		return Merged
	}

	free := dst.FirstFreeSlot()
	if room == 0 && free == NoSlot {
		return Noop
	}
	rest := from.Quantity - room
	if room > 0 {
		full := to.WithQuantity(to.MaxStack)
		dst.set(dstSlot, &full)
	}
	remainder := from.WithQuantity(rest)
	if free != NoSlot {
		src.set(srcSlot, nil)
		dst.set(free, &remainder)
		return Spilled
	}
	src.set(srcSlot, &remainder)
	return Partial
}

// Split halves the stack in slot: the slot keeps ceil(n/2) and the lowest
// free slot of the same inventory receives floor(n/2). Stacks of one item
// and full inventories are left alone.
func Split(inv *Inventory, slot int) Outcome {
	if !inv.Valid(slot) {
		return Noop
	}
	s := inv.slots[slot]
	if s == nil || s.Quantity < 2 {
		return Noop
	}
	free := inv.FirstFreeSlot()
	if free == NoSlot {
		return Noop
	}
	low := s.Quantity / 2
	high := s.Quantity - low
	_ = Atomic(func() error {
		kept := s.WithQuantity(high)
		moved := s.WithQuantity(low)
		inv.set(slot, &kept)
		inv.set(free, &moved)
		return nil
	}, inv)
	return Divided
}
