package pathfind

import (
	"container/heap"
	"errors"

	"tilerts.ai/internal/sim/grid"
)

const (
	CostCardinal = 10
	CostDiagonal = 14
)

var (
	ErrNoPath = errors.New("pathfind: no path")
	ErrTooFar = errors.New("pathfind: destination too far")
)

// Heuristic estimates the remaining cost between two cells in path-cost units.
type Heuristic func(a, b grid.Coords) int

// Manhattan is |dx|+|dy| scaled to cardinal cost.
func Manhattan(a, b grid.Coords) int { return CostCardinal * grid.Manhattan(a, b) }

// Octile is the exact unobstructed cost for the 10/14 table, so it never
// overestimates and A* returns minimal-cost paths.
func Octile(a, b grid.Coords) int {
	dx := grid.AbsInt(a.X - b.X)
	dy := grid.AbsInt(a.Y - b.Y)
	lo, hi := dx, dy
	if lo > hi {
		lo, hi = hi, lo
	}
	return CostCardinal*hi + (CostDiagonal-CostCardinal)*lo
}

func HeuristicByName(name string) Heuristic {
	if name == "manhattan" {
		return Manhattan
	}
	return Octile
}

type Options struct {
	// MaxDistance rejects goals farther than this straight-line distance
	// before any search. Zero disables the clamp.
	MaxDistance float64
	// Margin pads the start/goal bounding box that limits expansion.
	Margin    int
	Heuristic Heuristic
}

// Plan returns the cells after start up to and including goal. start == goal
// yields an empty path and no error.
func Plan(start, goal grid.Coords, blocked func(grid.Coords) bool, opts Options) ([]grid.Coords, error) {
	if start == goal {
		return nil, nil
	}
	if opts.MaxDistance > 0 && grid.Euclid(start, goal) > opts.MaxDistance {
		return nil, ErrTooFar
	}
	h := opts.Heuristic
	if h == nil {
		h = Octile
	}
	minX, maxX := min(start.X, goal.X)-opts.Margin, max(start.X, goal.X)+opts.Margin
	minY, maxY := min(start.Y, goal.Y)-opts.Margin, max(start.Y, goal.Y)+opts.Margin
	inBox := func(c grid.Coords) bool {
		return c.X >= minX && c.X <= maxX && c.Y >= minY && c.Y <= maxY
	}

	open := &openSet{}
	var seq uint64
	push := func(c grid.Coords, g int) {
		seq++
		heap.Push(open, &node{cell: c, g: g, f: g + h(c, goal), seq: seq})
	}

	gScore := map[grid.Coords]int{start: 0}
	cameFrom := map[grid.Coords]grid.Coords{}
	closed := map[grid.Coords]bool{}
	push(start, 0)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.cell] {
			continue
		}
		if cur.cell == goal {
			return reconstruct(cameFrom, start, goal), nil
		}
		closed[cur.cell] = true

		for i, d := range grid.Neighbors8 {
			next := cur.cell.Add(d[0], d[1])
			if closed[next] || !inBox(next) {
				continue
			}
			if blocked != nil && blocked(next) {
				continue
			}
			step := CostCardinal
			if i >= 4 {
				step = CostDiagonal
			}
			g := cur.g + step
			if old, seen := gScore[next]; seen && g >= old {
				continue
			}
			gScore[next] = g
			cameFrom[next] = cur.cell
			push(next, g)
		}
	}
	return nil, ErrNoPath
}

// StepCost is the cost of moving between two adjacent cells.
func StepCost(a, b grid.Coords) int {
	if a.X != b.X && a.Y != b.Y {
		return CostDiagonal
	}
	return CostCardinal
}

// PathCost sums the step costs of path starting from start.
func PathCost(start grid.Coords, path []grid.Coords) int {
	cost := 0
	prev := start
	for _, c := range path {
		cost += StepCost(prev, c)
		prev = c
	}
	return cost
}

func reconstruct(cameFrom map[grid.Coords]grid.Coords, start, goal grid.Coords) []grid.Coords {
	var rev []grid.Coords
	for c := goal; c != start; c = cameFrom[c] {
		rev = append(rev, c)
	}
	out := make([]grid.Coords, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

type node struct {
	cell grid.Coords
	g    int
	f    int
	seq  uint64
}

// openSet orders by f, then by discovery order.
type openSet []*node

func (s openSet) Len() int { return len(s) }
func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	return s[i].seq < s[j].seq
}
func (s openSet) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s *openSet) Push(x interface{}) {
	*s = append(*s, x.(*node))
}
func (s *openSet) Pop() interface{} {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]
	return item
}
