package component

import "tradepost/internal/inventory"

// ItemDef is a catalog record from which stacks are minted.
type ItemDef struct {
	ID       inventory.ItemID
	Name     string
	Glyph    string
	MaxStack int
	Price    int
}
