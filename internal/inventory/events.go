package inventory

import "github.com/google/uuid"

// EventKind tags a notification published on the Bus.
type EventKind uint8

const (
	// ContentChanged follows every mutating operation, once per touched inventory.
	ContentChanged EventKind = iota
	// Redraw follows a full reload of an inventory's content.
	Redraw
	// Select reports that the player's selection moved to a slot.
	Select
	// InventoryOpens reports that a container inventory was opened.
	InventoryOpens
)

func (k EventKind) String() string {
	switch k {
	case ContentChanged:
		return "content_changed"
	case Redraw:
		return "redraw"
	case Select:
		return "select"
	case InventoryOpens:
		return "inventory_opens"
	}
	return "unknown"
}

// Event is one notification. Item, Slot and Quantity are optional and only
// filled when the publisher has them. All events emitted by a single
// operation share the same Op.
type Event struct {
	Kind      EventKind
	Inventory string
	Item      ItemID
	Slot      int
	Quantity  int
	Op        uuid.UUID
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus fans events out to observers subscribed by inventory name or to
// everything. It is not safe for concurrent use; each game session owns one.
type Bus struct {
	nextID int
	byName map[string][]subscriber
	all    []subscriber
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{byName: make(map[string][]subscriber)}
}

// Subscribe registers fn for events targeting the named inventory.
// The returned func removes the subscription.
func (b *Bus) Subscribe(name string, fn func(Event)) (cancel func()) {
	b.nextID++
	id := b.nextID
	b.byName[name] = append(b.byName[name], subscriber{id: id, fn: fn})
	return func() {
		b.byName[name] = without(b.byName[name], id)
		if len(b.byName[name]) == 0 {
			delete(b.byName, name)
		}
	}
}

// SubscribeAll registers fn for every event.
func (b *Bus) SubscribeAll(fn func(Event)) (cancel func()) {
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscriber{id: id, fn: fn})
	return func() { b.all = without(b.all, id) }
}

// Publish delivers e to named subscribers first, then to global ones.
// A nil Bus drops the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.Op == uuid.Nil {
		e.Op = uuid.New()
	}
	for _, s := range append([]subscriber(nil), b.byName[e.Inventory]...) {
		s.fn(e)
	}
	for _, s := range append([]subscriber(nil), b.all...) {
		s.fn(e)
	}
}

func without(subs []subscriber, id int) []subscriber {
	out := subs[:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
