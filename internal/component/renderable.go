package component

import (
	"tradepost/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

const CRenderable ecs.ComponentType = 3

// Renderable is how a world object appears in the object list.
type Renderable struct {
	Glyph   string
	Title   string
	FGColor tcell.Color
}

func (Renderable) Type() ecs.ComponentType { return CRenderable }
