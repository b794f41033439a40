package render

// Cell is one inventory slot as drawn. An empty slot has no Glyph.
type Cell struct {
	Glyph    string
	Quantity int
}

// Panel is one column of the screen: either an inventory grid (Columns > 0)
// or a plain list of Lines.
type Panel struct {
	Title   string
	Columns int
	Cells   []Cell
	Lines   []string
	Cursor  int
	Marked  int // slot picked up by a pending move, or -1
	Focused bool
}

// View is everything one frame shows.
type View struct {
	Header   string
	Panels   []Panel
	Details  string
	Messages []string
	Help     string
}
