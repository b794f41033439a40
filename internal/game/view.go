package game

import (
	"context"
	"fmt"
	"strings"

	"tradepost/internal/component"
	"tradepost/internal/inventory"
	"tradepost/internal/render"

	"github.com/gdamore/tcell/v2"
)

// View snapshots the session for the renderer.
func (g *Game) View() render.View {
	v := render.View{
		Header:   fmt.Sprintf("tradepost  %s %d  free %d", g.glyph(g.desk.Currency().Item), g.Cash(), g.main.FreeSlots()),
		Messages: g.Messages(),
		Details:  g.details(),
		Help:     g.help(),
	}
	for i, p := range g.panes {
		v.Panels = append(v.Panels, g.panel(p, i == g.focus))
	}
	return v
}

func (g *Game) panel(p *pane, focused bool) render.Panel {
	out := render.Panel{Title: p.title, Cursor: p.cursor, Focused: focused, Marked: inventory.NoSlot}
	if p.kind == paneObjects {
		for _, id := range g.objects {
			r, _ := g.world.Get(id, component.CRenderable).(component.Renderable)
			line := r.Glyph + " " + r.Title
			if id == g.open {
				line += " *"
			}
			out.Lines = append(out.Lines, line)
		}
		return out
	}

	out.Columns = p.inv.Columns()
	for _, s := range p.inv.Slots() {
		if s == nil {
			out.Cells = append(out.Cells, render.Cell{})
			continue
		}
		out.Cells = append(out.Cells, render.Cell{Glyph: g.glyph(s.Item), Quantity: s.Quantity})
	}
	if g.pending != nil && g.pending.inv == p.inv {
		out.Marked = g.pending.slot
	}
	return out
}

// details describes the stack under the cursor, with the pending quote
// when a vendor is open.
func (g *Game) details() string {
	p := g.panes[g.focus]
	if p.kind != paneInventory {
		return "Enter opens the selected vendor or storage."
	}
	s, ok := p.inv.At(p.cursor)
	if !ok {
		return ""
	}
	line := fmt.Sprintf("%s %s x%d", g.glyph(s.Item), g.itemName(s.Item), s.Quantity)
	if g.desk.Disabled(s.Item) {
		return line + "  (not for trade)"
	}
	q := g.desk.Quote()
	if q.Active() && q.Source == p.inv && q.Slot == p.cursor {
		line += fmt.Sprintf("  %d x%d = %d", q.UnitPrice, q.Quantity, q.Total())
		if q.Adjustable() {
			line += fmt.Sprintf("  [%s/%s]", g.cfg.Keys.Decrease, g.cfg.Keys.Increase)
		}
	}
	return line
}

func (g *Game) help() string {
	k := g.cfg.Keys
	parts := []string{"tab panel", "enter select", k.Move + " move", k.Split + " split"}
	if g.desk.Vendor() != nil {
		parts = append(parts, k.Buy+" buy", k.Sell+" sell", k.ToggleVendor+" buyback")
	}
	parts = append(parts, k.DeleteSaves+" wipe", "esc close", k.Quit+" quit")
	return strings.Join(parts, "  ")
}

func (g *Game) glyph(id inventory.ItemID) string {
	if def, ok := g.catalog.Item(string(id)); ok && def.Glyph != "" {
		return def.Glyph
	}
	if id == "" {
		return "?"
	}
	return string([]rune(string(id))[:1])
}

// Run draws and handles input on screen until the player quits, the screen
// stops delivering events or ctx is cancelled. Everything is saved on the
// way out.
func (g *Game) Run(ctx context.Context, screen tcell.Screen) error {
	renderer := render.NewRenderer(screen)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		renderer.Draw(g.View())
		ev := screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			break
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if g.Apply(g.keys.Action(ev)) {
				return g.shutdown()
			}
		}
	}
	return g.shutdown()
}

func (g *Game) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	return g.Shutdown(ctx)
}
