package inventory

// ItemID identifies an item kind. Two stacks merge only when their ItemIDs match.
type ItemID string

// NoSlot is returned by slot searches that come up empty.
const NoSlot = -1

// ItemStack is a quantity of identical items occupying one slot.
// A stored stack always satisfies 1 <= Quantity <= MaxStack; an empty slot is nil.
type ItemStack struct {
	Item     ItemID `json:"item"`
	Quantity int    `json:"quantity"`
	MaxStack int    `json:"max_stack"`
	Price    int    `json:"price"`
}

// Valid reports whether the stack may occupy a slot.
func (s ItemStack) Valid() bool {
	return s.Item != "" && s.MaxStack >= 1 && s.Quantity >= 1 && s.Quantity <= s.MaxStack
}

// Room is how many more items the stack accepts before reaching MaxStack.
func (s ItemStack) Room() int {
	if s.Quantity >= s.MaxStack {
		return 0
	}
	return s.MaxStack - s.Quantity
}

// WithQuantity returns a copy of the stack holding n items.
func (s ItemStack) WithQuantity(n int) ItemStack {
	s.Quantity = n
	return s
}

func (s *ItemStack) clone() *ItemStack {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
