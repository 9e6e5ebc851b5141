package grid

import "math"

// Coords is a discrete tile address. Equality and hashing are by value.
type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coords) Add(dx, dy int) Coords { return Coords{X: c.X + dx, Y: c.Y + dy} }

// Vec2 is a world-space position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Lerp(to Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (to.X-v.X)*t, Y: v.Y + (to.Y-v.Y)*t}
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Chebyshev returns max(|dx|,|dy|).
func Chebyshev(a, b Coords) int {
	dx := AbsInt(a.X - b.X)
	dy := AbsInt(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func Manhattan(a, b Coords) int {
	return AbsInt(a.X-b.X) + AbsInt(a.Y-b.Y)
}

func DistSq(a, b Coords) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func Euclid(a, b Coords) float64 {
	return math.Sqrt(float64(DistSq(a, b)))
}

// Within reports whether a and b are close enough to interact: Chebyshev
// distance <= 1 or Euclidean distance <= 1.5.
func Within(a, b Coords) bool {
	return Chebyshev(a, b) <= 1 || Euclid(a, b) <= 1.5
}

// Neighbors8 lists the offsets of the 8 adjacent cells in a fixed order:
// left, right, below, above, then the diagonals.
var Neighbors8 = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}
