package mining

import (
	"testing"

	"tilerts.ai/internal/sim/catalogs"
)

func TestBaseTimeFromCatalog(t *testing.T) {
	res := catalogs.Defaults().Resources
	if got := BaseTime(res, catalogs.Gold); got != 4 {
		t.Fatalf("gold base time: got %v want 4", got)
	}
	if got := BaseTime(res, "BERRY"); got != DefaultBaseTime {
		t.Fatalf("unknown kind: got %v", got)
	}
}

func TestYield(t *testing.T) {
	cases := []struct {
		skill float64
		want  int
	}{
		{1.0, 1},
		{2.9, 1},
		{3.0, 2},
		{12, 5},
	}
	for _, c := range cases {
		if got := Yield(c.skill, 3); got != c.want {
			t.Fatalf("Yield(%v)=%d want %d", c.skill, got, c.want)
		}
	}
	if got := Yield(12, 0); got != 1 {
		t.Fatalf("zero divisor: got %d", got)
	}
}

func TestAdvance(t *testing.T) {
	p, done := Advance(0, 1.5, 1, 2)
	if done || p != 1.5 {
		t.Fatalf("got %v %v", p, done)
	}
	p, done = Advance(p, 1.5, 1, 2)
	if !done || p != 3 {
		t.Fatalf("got %v %v", p, done)
	}
}
