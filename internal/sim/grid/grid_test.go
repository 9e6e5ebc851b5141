package grid

import "testing"

func TestDistances(t *testing.T) {
	a := Coords{X: 0, Y: 0}
	b := Coords{X: 3, Y: -4}
	if got := Chebyshev(a, b); got != 4 {
		t.Fatalf("Chebyshev=%d", got)
	}
	if got := Manhattan(a, b); got != 7 {
		t.Fatalf("Manhattan=%d", got)
	}
	if got := DistSq(a, b); got != 25 {
		t.Fatalf("DistSq=%d", got)
	}
	if got := Euclid(a, b); got != 5 {
		t.Fatalf("Euclid=%v", got)
	}
}

func TestWithin(t *testing.T) {
	c := Coords{X: 10, Y: 10}
	if !Within(c, Coords{X: 11, Y: 11}) {
		t.Fatalf("diagonal neighbor should be within reach")
	}
	if !Within(c, c) {
		t.Fatalf("same cell should be within reach")
	}
	if Within(c, Coords{X: 12, Y: 10}) {
		t.Fatalf("two cells away should be out of reach")
	}
}

func TestNeighbors8AllAdjacent(t *testing.T) {
	seen := map[Coords]bool{}
	for _, d := range Neighbors8 {
		n := Coords{}.Add(d[0], d[1])
		if Chebyshev(Coords{}, n) != 1 {
			t.Fatalf("offset %v is not adjacent", d)
		}
		seen[n] = true
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 distinct neighbors, got %d", len(seen))
	}
}
