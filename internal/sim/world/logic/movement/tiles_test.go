package movement

import (
	"testing"

	"tilerts.ai/internal/sim/grid"
)

func TestCellWorldRoundTrip(t *testing.T) {
	tiles := Tiles{Size: 32}
	for x := -40; x <= 40; x++ {
		for y := -40; y <= 40; y++ {
			c := grid.Coords{X: x, Y: y}
			if got := tiles.WorldToCell(tiles.CellToWorld(c)); got != c {
				t.Fatalf("roundtrip %v -> %v", c, got)
			}
		}
	}
}

func TestCellToWorldCentres(t *testing.T) {
	tiles := Tiles{Size: 32}
	p := tiles.CellToWorld(grid.Coords{X: 1, Y: -1})
	if p.X != 48 || p.Y != -16 {
		t.Fatalf("unexpected centre: %+v", p)
	}
}

func TestAdvance(t *testing.T) {
	p, done := Advance(0, 4, 0.05)
	if done || p != 0.2 {
		t.Fatalf("Advance=%v,%v", p, done)
	}
	p, done = Advance(0.9, 4, 0.05)
	if !done || p != 1 {
		t.Fatalf("Advance overshoot=%v,%v", p, done)
	}
}
