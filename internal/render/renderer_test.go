package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

func newTestScreen(t *testing.T) tcell.Screen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(80, 24)
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	t.Cleanup(ss.Fini)
	return ss
}

// rowText reads one screen row back as a string.
func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, comb, _, _ := s.GetContent(x, y)
		b.WriteRune(ch)
		for _, c := range comb {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	var rows []string
	for y := 0; y < h; y++ {
		rows = append(rows, rowText(s, y))
	}
	return strings.Join(rows, "\n")
}

func TestDrawShowsPanelsAndDetails(t *testing.T) {
	ss := newTestScreen(t)
	r := NewRenderer(ss)
	r.Draw(View{
		Header: "tradepost  cash 25",
		Panels: []Panel{
			{Title: "Inventory", Columns: 2, Cells: []Cell{{Glyph: "🪙", Quantity: 25}, {}}, Marked: -1, Focused: true},
			{Title: "Smith Hale", Columns: 1, Cells: []Cell{{Glyph: "🗡️", Quantity: 2}}, Marked: -1},
		},
		Details:  "Harbor Blade  150 x1 = 150",
		Messages: []string{"one", "two", "three", "four"},
		Help:     "q quit",
	})

	text := screenText(ss)
	for _, want := range []string{"tradepost  cash 25", "Inventory", "Smith Hale", " 25", "150 x1 = 150", "q quit"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen is missing %q", want)
		}
	}
	if strings.Contains(text, "one") {
		t.Error("only the last three messages should be shown")
	}
	if !strings.Contains(text, "four") {
		t.Error("latest message should be shown")
	}
}

func TestDrawListPanel(t *testing.T) {
	ss := newTestScreen(t)
	r := NewRenderer(ss)
	r.Draw(View{Panels: []Panel{{Title: "World", Lines: []string{"📦 Fish Crate", "🧰 Wreck Chest"}, Cursor: 1, Focused: true, Marked: -1}}})

	text := screenText(ss)
	if !strings.Contains(text, "Fish Crate") || !strings.Contains(text, "Wreck Chest") {
		t.Fatalf("list lines missing:\n%s", text)
	}
	_, _, style, _ := ss.GetContent(0, 4)
	if style != DefaultPalette.Cursor {
		t.Error("cursor line should use the cursor style")
	}
}

func TestCellTextWidth(t *testing.T) {
	for _, c := range []Cell{{Glyph: "🧪", Quantity: 3}, {Glyph: "a", Quantity: 100}, {}} {
		if w := runewidth.StringWidth(cellText(c)); w != cellWidth-1 {
			t.Errorf("cellText(%+v) is %d columns wide; want %d", c, w, cellWidth-1)
		}
	}
}
