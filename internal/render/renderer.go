package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// cellWidth is the screen width of one slot: a two-column glyph, a
// three-digit quantity and a gap.
const cellWidth = 6

const panelGap = 3

// Renderer draws a View onto a tcell screen.
type Renderer struct {
	screen  tcell.Screen
	palette Palette
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, palette: DefaultPalette}
}

// Draw clears the screen and renders v.
func (r *Renderer) Draw(v View) {
	r.screen.Clear()
	_, h := r.screen.Size()

	r.drawText(0, 0, v.Header, r.palette.Title)

	x, bottom := 0, 2
	for _, p := range v.Panels {
		w, ph := r.drawPanel(x, 2, p)
		x += w + panelGap
		bottom = max(bottom, 2+ph)
	}

	y := bottom + 1
	r.drawHLine(y)
	r.drawText(0, y+1, v.Details, r.palette.Details)

	start := max(len(v.Messages)-3, 0)
	for i, msg := range v.Messages[start:] {
		r.drawText(0, y+2+i, msg, r.palette.Message)
	}
	r.drawText(0, h-1, v.Help, r.palette.Help)
	r.screen.Show()
}

// drawPanel returns the width and height it used.
func (r *Renderer) drawPanel(x, y int, p Panel) (int, int) {
	titleStyle := r.palette.Frame
	if p.Focused {
		titleStyle = r.palette.Title
	}
	width := r.drawText(x, y, p.Title, titleStyle) - x

	if p.Columns <= 0 {
		for i, line := range p.Lines {
			style := r.palette.Cell
			if p.Focused && i == p.Cursor {
				style = r.palette.Cursor
			}
			width = max(width, r.drawText(x, y+1+i, line, style)-x)
		}
		return width, 1 + len(p.Lines)
	}

	rows := (len(p.Cells) + p.Columns - 1) / p.Columns
	for i, c := range p.Cells {
		cx := x + (i%p.Columns)*cellWidth
		cy := y + 1 + i/p.Columns
		style := r.palette.Cell
		switch {
		case i == p.Marked:
			style = r.palette.Marked
		case p.Focused && i == p.Cursor:
			style = r.palette.Cursor
		case c.Glyph == "":
			style = r.palette.Empty
		}
		r.drawText(cx, cy, cellText(c), style)
	}
	return max(width, p.Columns*cellWidth), 1 + rows
}

// cellText pads a slot to cellWidth-1 columns regardless of glyph width.
func cellText(c Cell) string {
	if c.Glyph == "" {
		return " ·   "
	}
	glyph := c.Glyph
	if pad := 2 - runewidth.StringWidth(glyph); pad > 0 {
		glyph += strings.Repeat(" ", pad)
	}
	return fmt.Sprintf("%s%3d", glyph, c.Quantity)
}

// drawText writes s at (x, y) and returns the column after it. Zero-width
// runes such as variation selectors combine with the rune before them.
func (r *Renderer) drawText(x, y int, s string, style tcell.Style) int {
	lastX := -1
	var last rune
	var comb []rune
	flush := func() {
		if lastX >= 0 {
			r.screen.SetContent(lastX, y, last, comb, style)
		}
	}
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 && lastX >= 0 {
			comb = append(comb, ch)
			continue
		}
		flush()
		lastX, last, comb = x, ch, nil
		x += max(w, 1)
	}
	flush()
	return x
}

func (r *Renderer) drawHLine(y int) {
	w, _ := r.screen.Size()
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, r.palette.Frame)
	}
}
