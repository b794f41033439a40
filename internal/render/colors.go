package render

import "github.com/gdamore/tcell/v2"

// Palette holds the styles the panels are drawn with.
type Palette struct {
	Title    tcell.Style
	Frame    tcell.Style
	Cell     tcell.Style
	Empty    tcell.Style
	Cursor   tcell.Style
	Marked   tcell.Style
	Details  tcell.Style
	Message  tcell.Style
	Help     tcell.Style
	Disabled tcell.Style
}

// DefaultPalette works on dark terminals.
var DefaultPalette = Palette{
	Title:    tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	Frame:    tcell.StyleDefault.Foreground(tcell.ColorGray),
	Cell:     tcell.StyleDefault.Foreground(tcell.ColorWhite),
	Empty:    tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
	Cursor:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightCyan),
	Marked:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
	Details:  tcell.StyleDefault.Foreground(tcell.ColorLightGreen),
	Message:  tcell.StyleDefault.Foreground(tcell.ColorLightYellow),
	Help:     tcell.StyleDefault.Foreground(tcell.ColorGray),
	Disabled: tcell.StyleDefault.Foreground(tcell.ColorRed),
}
