package pathfind

import (
	"errors"
	"math/rand"
	"testing"

	"tilerts.ai/internal/sim/grid"
)

func blockedSet(cells ...grid.Coords) func(grid.Coords) bool {
	m := map[grid.Coords]bool{}
	for _, c := range cells {
		m[c] = true
	}
	return func(c grid.Coords) bool { return m[c] }
}

var defaultOpts = Options{MaxDistance: 30, Margin: 10}

func checkPathShape(t *testing.T, start, goal grid.Coords, path []grid.Coords, blocked func(grid.Coords) bool) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("empty path from %v to %v", start, goal)
	}
	if path[len(path)-1] != goal {
		t.Fatalf("path ends at %v, want %v", path[len(path)-1], goal)
	}
	prev := start
	for _, c := range path {
		if grid.Chebyshev(prev, c) != 1 {
			t.Fatalf("non-adjacent step %v -> %v", prev, c)
		}
		if blocked != nil && blocked(c) {
			t.Fatalf("path crosses obstacle at %v", c)
		}
		prev = c
	}
}

func TestPlanStraightLine(t *testing.T) {
	start, goal := grid.Coords{}, grid.Coords{X: 5}
	path, err := Plan(start, goal, nil, defaultOpts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	checkPathShape(t, start, goal, path, nil)
	if len(path) != 5 {
		t.Fatalf("expected 5 steps, got %d: %v", len(path), path)
	}
	if got := PathCost(start, path); got != 50 {
		t.Fatalf("cost=%d, want 50", got)
	}
}

func TestPlanAroundObstacle(t *testing.T) {
	start, goal := grid.Coords{}, grid.Coords{X: 5}
	blocked := blockedSet(grid.Coords{X: 3})
	path, err := Plan(start, goal, blocked, defaultOpts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	checkPathShape(t, start, goal, path, blocked)
	detour := false
	for _, c := range path {
		if c == (grid.Coords{X: 3, Y: 1}) || c == (grid.Coords{X: 3, Y: -1}) {
			detour = true
		}
	}
	if !detour {
		t.Fatalf("expected detour through (3,±1): %v", path)
	}
	// Two cardinal steps, two diagonals around the obstacle, one cardinal.
	if got := PathCost(start, path); got != 58 {
		t.Fatalf("cost=%d, want 58", got)
	}
}

func TestPlanManhattanHeuristicAroundObstacle(t *testing.T) {
	start, goal := grid.Coords{}, grid.Coords{X: 5}
	blocked := blockedSet(grid.Coords{X: 3})
	opts := defaultOpts
	opts.Heuristic = HeuristicByName("manhattan")
	path, err := Plan(start, goal, blocked, opts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	checkPathShape(t, start, goal, path, blocked)
}

func TestPlanAlreadyArrived(t *testing.T) {
	path, err := Plan(grid.Coords{X: 2, Y: 2}, grid.Coords{X: 2, Y: 2}, nil, defaultOpts)
	if err != nil || path != nil {
		t.Fatalf("expected empty path, got %v, %v", path, err)
	}
}

func TestPlanDistanceClampSkipsSearch(t *testing.T) {
	calls := 0
	blocked := func(grid.Coords) bool {
		calls++
		return false
	}
	_, err := Plan(grid.Coords{}, grid.Coords{X: 31}, blocked, defaultOpts)
	if !errors.Is(err, ErrTooFar) {
		t.Fatalf("expected ErrTooFar, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("search ran despite clamp: %d predicate calls", calls)
	}
	_, err = Plan(grid.Coords{}, grid.Coords{X: 22, Y: 22}, blocked, defaultOpts)
	if !errors.Is(err, ErrTooFar) {
		t.Fatalf("diagonal 31.1 should be clamped, got %v", err)
	}
	if _, err := Plan(grid.Coords{}, grid.Coords{X: 30}, nil, defaultOpts); err != nil {
		t.Fatalf("distance exactly 30 should plan: %v", err)
	}
}

func TestPlanNoPath(t *testing.T) {
	goal := grid.Coords{X: 4, Y: 4}
	var walls []grid.Coords
	for _, d := range grid.Neighbors8 {
		walls = append(walls, goal.Add(d[0], d[1]))
	}
	_, err := Plan(grid.Coords{}, goal, blockedSet(walls...), defaultOpts)
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestPlanRespectsSearchMargin(t *testing.T) {
	// A wall spanning the padded box forces a detour that leaves it.
	var walls []grid.Coords
	for y := -2; y <= 2; y++ {
		walls = append(walls, grid.Coords{X: 2, Y: y})
	}
	opts := Options{MaxDistance: 30, Margin: 2}
	if _, err := Plan(grid.Coords{}, grid.Coords{X: 4}, blockedSet(walls...), opts); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath inside margin box, got %v", err)
	}
	opts.Margin = 3
	if _, err := Plan(grid.Coords{}, grid.Coords{X: 4}, blockedSet(walls...), opts); err != nil {
		t.Fatalf("wider margin should route around: %v", err)
	}
}

// dijkstra is the reference minimal cost inside the same search box.
func dijkstra(start, goal grid.Coords, blocked func(grid.Coords) bool, margin int) (int, bool) {
	minX, maxX := min(start.X, goal.X)-margin, max(start.X, goal.X)+margin
	minY, maxY := min(start.Y, goal.Y)-margin, max(start.Y, goal.Y)+margin
	dist := map[grid.Coords]int{start: 0}
	done := map[grid.Coords]bool{}
	for {
		best, found := grid.Coords{}, false
		for c, d := range dist {
			if done[c] {
				continue
			}
			if !found || d < dist[best] {
				best, found = c, true
			}
		}
		if !found {
			return 0, false
		}
		if best == goal {
			return dist[best], true
		}
		done[best] = true
		for i, d := range grid.Neighbors8 {
			n := best.Add(d[0], d[1])
			if n.X < minX || n.X > maxX || n.Y < minY || n.Y > maxY || blocked(n) {
				continue
			}
			step := CostCardinal
			if i >= 4 {
				step = CostDiagonal
			}
			if old, ok := dist[n]; !ok || dist[best]+step < old {
				dist[n] = dist[best] + step
			}
		}
	}
}

func TestPlanIsMinimalCost(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 40; trial++ {
		walls := map[grid.Coords]bool{}
		for i := 0; i < 30; i++ {
			walls[grid.Coords{X: rng.Intn(12), Y: rng.Intn(12)}] = true
		}
		start := grid.Coords{X: rng.Intn(12), Y: rng.Intn(12)}
		goal := grid.Coords{X: rng.Intn(12), Y: rng.Intn(12)}
		delete(walls, start)
		delete(walls, goal)
		blocked := func(c grid.Coords) bool { return walls[c] }

		opts := Options{MaxDistance: 30, Margin: 2}
		path, err := Plan(start, goal, blocked, opts)
		want, ok := dijkstra(start, goal, blocked, 2)
		if start == goal {
			continue
		}
		if !ok {
			if !errors.Is(err, ErrNoPath) {
				t.Fatalf("trial %d: expected ErrNoPath, got %v", trial, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("trial %d: Plan: %v", trial, err)
		}
		checkPathShape(t, start, goal, path, blocked)
		if got := PathCost(start, path); got != want {
			t.Fatalf("trial %d: cost=%d, minimal=%d", trial, got, want)
		}
	}
}

func TestOctileNeverOverestimates(t *testing.T) {
	for x := -6; x <= 6; x++ {
		for y := -6; y <= 6; y++ {
			goal := grid.Coords{X: x, Y: y}
			want, _ := dijkstra(grid.Coords{}, goal, func(grid.Coords) bool { return false }, 0)
			if got := Octile(grid.Coords{}, goal); got != want {
				t.Fatalf("Octile(%v)=%d, open-grid cost=%d", goal, got, want)
			}
		}
	}
}
