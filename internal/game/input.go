package game

import (
	"unicode/utf8"

	"tradepost/internal/config"
	"tradepost/internal/ecs"
	"tradepost/internal/inventory"

	"github.com/gdamore/tcell/v2"
)

// Action represents a player-requested engine action.
type Action uint8

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionNextPanel
	ActionPrevPanel
	ActionSelect
	ActionOpen
	ActionClose
	ActionMove
	ActionSplit
	ActionIncrease
	ActionDecrease
	ActionBuy
	ActionSell
	ActionToggleVendor
	ActionDeleteSaves
	ActionQuit
)

// Keymap maps configured characters to actions.
type Keymap map[rune]Action

// NewKeymap builds the character bindings from the config. Empty bindings
// are skipped.
func NewKeymap(k config.Keys) Keymap {
	m := Keymap{}
	bind := func(s string, a Action) {
		if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
			m[r] = a
		}
	}
	bind(k.Split, ActionSplit)
	bind(k.Increase, ActionIncrease)
	bind(k.Decrease, ActionDecrease)
	bind(k.Sell, ActionSell)
	bind(k.Buy, ActionBuy)
	bind(k.ToggleVendor, ActionToggleVendor)
	bind(k.Move, ActionMove)
	bind(k.Open, ActionOpen)
	bind(k.Close, ActionClose)
	bind(k.DeleteSaves, ActionDeleteSaves)
	bind(k.Quit, ActionQuit)
	return m
}

// Action maps a tcell key event to an action. Named keys are fixed;
// character keys come from the configured bindings, with vi keys as a
// fallback for cursor movement.
func (k Keymap) Action(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionUp
	case tcell.KeyDown:
		return ActionDown
	case tcell.KeyLeft:
		return ActionLeft
	case tcell.KeyRight:
		return ActionRight
	case tcell.KeyTab:
		return ActionNextPanel
	case tcell.KeyBacktab:
		return ActionPrevPanel
	case tcell.KeyEnter:
		return ActionSelect
	case tcell.KeyEscape:
		return ActionClose
	case tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
	default:
		return ActionNone
	}

	if a, ok := k[ev.Rune()]; ok {
		return a
	}
	switch ev.Rune() {
	case 'k':
		return ActionUp
	case 'j':
		return ActionDown
	case 'h':
		return ActionLeft
	case 'l':
		return ActionRight
	}
	return ActionNone
}

// Apply runs one action and reports whether the player asked to quit.
func (g *Game) Apply(a Action) (quit bool) {
	p := g.panes[g.focus]
	switch a {
	case ActionUp:
		g.moveCursor(0, -1)
	case ActionDown:
		g.moveCursor(0, 1)
	case ActionLeft:
		g.moveCursor(-1, 0)
	case ActionRight:
		g.moveCursor(1, 0)
	case ActionNextPanel:
		g.focusPane((g.focus + 1) % len(g.panes))
	case ActionPrevPanel:
		g.focusPane((g.focus + len(g.panes) - 1) % len(g.panes))
	case ActionSelect:
		if p.kind == paneObjects {
			g.openAtCursor()
		} else {
			g.Select(p.inv, p.cursor)
		}
	case ActionOpen:
		g.openAtCursor()
	case ActionClose:
		if g.pending != nil {
			g.pending = nil
			g.notify("Move cancelled.")
		} else {
			g.Close()
		}
	case ActionMove:
		g.moveAtCursor()
	case ActionSplit:
		if p.kind == paneInventory && g.Split(p.inv, p.cursor) == inventory.Noop {
			g.notify("Nothing to split.")
		}
	case ActionIncrease:
		g.Increase()
	case ActionDecrease:
		g.Decrease()
	case ActionBuy:
		g.Buy()
	case ActionSell:
		g.Sell()
	case ActionToggleVendor:
		g.ToggleVendorView()
	case ActionDeleteSaves:
		if id, ok := g.objectAtCursor(); ok {
			if err := g.DeleteSaves(id); err != nil {
				g.notify("Could not delete saves: %v", err)
			} else {
				g.notify("Saves deleted.")
			}
		}
	case ActionQuit:
		return true
	}
	return false
}

func (g *Game) focusPane(i int) {
	g.focus = i
	if p := g.panes[i]; p.kind == paneInventory {
		g.Select(p.inv, p.cursor)
	}
}

// moveCursor steps the focused pane's cursor, clamped to its bounds.
func (g *Game) moveCursor(dx, dy int) {
	p := g.panes[g.focus]
	if p.kind == paneObjects {
		if n := len(g.objects); n > 0 {
			p.cursor = min(max(p.cursor+dy+dx, 0), n-1)
		}
		return
	}
	cols := p.inv.Columns()
	x := min(max(p.cursor%cols+dx, 0), cols-1)
	y := min(max(p.cursor/cols+dy, 0), p.inv.Rows()-1)
	p.cursor = y*cols + x
	g.Select(p.inv, p.cursor)
}

func (g *Game) objectAtCursor() (ecs.EntityID, bool) {
	p := g.objectsPane
	if p.cursor < 0 || p.cursor >= len(g.objects) {
		return ecs.NilEntity, false
	}
	return g.objects[p.cursor], true
}

func (g *Game) openAtCursor() {
	if id, ok := g.objectAtCursor(); ok {
		g.Open(id)
	}
}

// moveAtCursor is the two-step move: the first press picks up the stack
// under the cursor, the second drops it on the cursor's slot.
func (g *Game) moveAtCursor() {
	p := g.panes[g.focus]
	if p.kind != paneInventory {
		return
	}
	if g.pending == nil {
		s, ok := p.inv.At(p.cursor)
		if !ok {
			return
		}
		if g.tradeOnly(p.inv) {
			g.notify("Buy it first.")
			return
		}
		g.pending = &mark{inv: p.inv, slot: p.cursor}
		g.notify("Moving %s x%d.", g.itemName(s.Item), s.Quantity)
		return
	}
	m := g.pending
	g.pending = nil
	out := g.Transfer(m.inv, m.slot, p.inv, p.cursor)
	g.logger.Debug("game: transfer", "from", m.inv.Name(), "from_slot", m.slot, "to", p.inv.Name(), "to_slot", p.cursor, "outcome", out)
	if out == inventory.Noop {
		g.notify("Cannot move there.")
	}
}
