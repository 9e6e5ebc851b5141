package worldtest

import (
	"testing"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
)

func TestMoveTo_DetourAroundWall(t *testing.T) {
	h, _ := NewHarnessFromScenario(t, `{
  "world": {"id": "wall", "width": 16, "height": 16},
  "colliders": [[5, 0], [5, 1], [5, 2], [5, 3], [5, 4], [5, 5]],
  "units": [{"id": "U1", "cell": [2, 2]}]
}`)
	target := grid.Coords{X: 8, Y: 2}
	h.Move("U1", target)

	visited := map[grid.Coords]bool{}
	h.StepUntil(400, func() bool {
		visited[h.UnitView("U1").Cell] = true
		return h.UnitView("U1").State == "IDLE"
	})

	if got := h.UnitView("U1").Cell; got != target {
		t.Fatalf("cell=%v want %v", got, target)
	}
	for c := range visited {
		if c.X == 5 && c.Y <= 5 {
			t.Fatalf("walked through wall at %v", c)
		}
	}
	if !visited[grid.Coords{X: 5, Y: 6}] {
		t.Fatalf("expected detour through the wall's end, visited=%v", visited)
	}
	if len(h.EventsOf(protocol.EvMoveDone, "U1")) != 1 {
		t.Fatalf("MOVE_DONE events=%v", h.Events)
	}
}

func TestMoveTo_ReplansAroundNewBuilding(t *testing.T) {
	h, _ := NewHarnessFromScenario(t, `{
  "world": {"id": "road", "width": 20, "height": 20},
  "units": [
    {"id": "U1", "cell": [0, 5]},
    {"id": "U2", "cell": [6, 4], "inventory": {"wood": 10}}
  ]
}`)
	h.Move("U1", grid.Coords{X: 12, Y: 5})
	h.Step()
	h.Build("U2", "HOUSE", grid.Coords{X: 6, Y: 5})

	h.StepUntil(600, func() bool { return h.UnitView("U1").State == "IDLE" })

	if len(h.EventsOf(protocol.EvMoveReplan, "U1")) == 0 {
		t.Fatalf("expected MOVE_REPLAN for U1, events=%v", h.Events)
	}
	if got := h.UnitView("U1").Cell; got != (grid.Coords{X: 12, Y: 5}) {
		t.Fatalf("cell=%v", got)
	}
}

func TestMoveTo_FarDestinationRejected(t *testing.T) {
	h, _ := NewHarnessFromScenario(t, `{
  "world": {"id": "plain"},
  "units": [{"id": "U1", "cell": [0, 0]}]
}`)
	h.Move("U1", grid.Coords{X: 31})
	fails := h.EventsOf(protocol.EvMoveFail, "U1")
	if len(fails) != 1 || fails[0]["code"] != protocol.ErrTooFar {
		t.Fatalf("MOVE_FAIL=%v", fails)
	}
	if v := h.UnitView("U1"); v.State != "IDLE" || v.Destination != nil || v.Cell != (grid.Coords{}) {
		t.Fatalf("view=%+v", v)
	}
}

func TestMoveTo_OutOfBoundsRejected(t *testing.T) {
	h, _ := NewHarnessFromScenario(t, `{
  "world": {"id": "box", "width": 4, "height": 4},
  "units": [{"id": "U1", "cell": [0, 0]}]
}`)
	h.Move("U1", grid.Coords{X: 6, Y: 1})
	fails := h.EventsOf(protocol.EvCommandFail, "U1")
	if len(fails) != 1 || fails[0]["code"] != protocol.ErrInvalidTarget {
		t.Fatalf("COMMAND_FAIL=%v", fails)
	}
}
