package component

import (
	"fmt"

	"github.com/google/uuid"

	"tradepost/internal/ecs"
)

const CPosition ecs.ComponentType = 1

// Position places a world object in a scene.
type Position struct {
	Scene string
	X, Y  int
}

func (Position) Type() ecs.ComponentType { return CPosition }

// AutoName derives a stable inventory name from where an object stands, so
// a container keeps its save file across runs without a hand-picked name.
func AutoName(kind string, p Position) string {
	key := fmt.Sprintf("%s/%s/%d/%d", kind, p.Scene, p.X, p.Y)
	return kind + "-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
