package factory

import (
	"tradepost/internal/component"
	"tradepost/internal/ecs"
	"tradepost/internal/inventory"

	"github.com/gdamore/tcell/v2"
)

// NewStack mints a stack of def with qty clamped to [1, MaxStack].
func NewStack(def component.ItemDef, qty int) inventory.ItemStack {
	maxStack := max(def.MaxStack, 1)
	return inventory.ItemStack{
		Item:     def.ID,
		Quantity: min(max(qty, 1), maxStack),
		MaxStack: maxStack,
		Price:    def.Price,
	}
}

// NewVendor creates a vendor entity at pos. Empty inventory names are
// derived from the position so the vendor's saves survive restarts.
func NewVendor(w *ecs.World, pos component.Position, glyph string, v component.Vendor) ecs.EntityID {
	if v.StockName == "" {
		v.StockName = component.AutoName("vendor", pos)
	}
	if v.RollbackName == "" {
		v.RollbackName = v.StockName + component.RollbackSuffix
	}
	if v.Title == "" {
		v.Title = "Vendor"
	}
	if v.RollbackTitle == "" {
		v.RollbackTitle = v.Title + " (buyback)"
	}
	id := w.CreateEntity()
	w.Add(id, pos)
	w.Add(id, component.Renderable{Glyph: glyph, Title: v.Title, FGColor: tcell.ColorYellow})
	w.Add(id, v)
	return id
}

// NewStorage creates a storage entity at pos, naming it like NewVendor.
func NewStorage(w *ecs.World, pos component.Position, glyph string, s component.Storage) ecs.EntityID {
	if s.Name == "" {
		s.Name = component.AutoName("storage", pos)
	}
	if s.Title == "" {
		s.Title = "Storage"
	}
	id := w.CreateEntity()
	w.Add(id, pos)
	w.Add(id, component.Renderable{Glyph: glyph, Title: s.Title, FGColor: tcell.ColorGreen})
	w.Add(id, s)
	return id
}
