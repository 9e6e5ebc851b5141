package movement

import (
	"math"

	"tilerts.ai/internal/sim/grid"
)

// Tiles maps between grid cells and world space. Cell centres sit half a tile
// in from the cell's lower-left corner.
type Tiles struct {
	Size float64
}

func (t Tiles) CellToWorld(c grid.Coords) grid.Vec2 {
	half := t.Size / 2
	return grid.Vec2{X: float64(c.X)*t.Size + half, Y: float64(c.Y)*t.Size + half}
}

func (t Tiles) WorldToCell(p grid.Vec2) grid.Coords {
	return grid.Coords{
		X: int(math.Floor(p.X / t.Size)),
		Y: int(math.Floor(p.Y / t.Size)),
	}
}

// Advance moves progress forward by speed*dt and reports whether the step is done.
func Advance(progress, speed, dt float64) (float64, bool) {
	progress += speed * dt
	if progress >= 1 {
		return 1, true
	}
	return progress, false
}
