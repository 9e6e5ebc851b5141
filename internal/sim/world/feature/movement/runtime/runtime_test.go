package runtime

import (
	"testing"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
	logicmovement "tilerts.ai/internal/sim/world/logic/movement"
	"tilerts.ai/internal/sim/world/logic/pathfind"
)

type stubEnv struct {
	units   []*modelpkg.Unit
	blocked map[grid.Coords]bool
	tiles   logicmovement.Tiles
	logs    int
}

func newStubEnv(units ...*modelpkg.Unit) *stubEnv {
	return &stubEnv{units: units, blocked: map[grid.Coords]bool{}, tiles: logicmovement.Tiles{Size: 32}}
}

func (s *stubEnv) SortedUnits() []*modelpkg.Unit   { return s.units }
func (s *stubEnv) Blocked(c grid.Coords) bool      { return s.blocked[c] }
func (s *stubEnv) Tiles() logicmovement.Tiles      { return s.tiles }
func (s *stubEnv) Logf(format string, args ...any) { s.logs++ }
func (s *stubEnv) PlanOptions() pathfind.Options {
	return pathfind.Options{MaxDistance: 30, Margin: 10, Heuristic: pathfind.Octile}
}

func newUnit(env *stubEnv, id string, c grid.Coords) *modelpkg.Unit {
	return &modelpkg.Unit{ID: id, Cell: c, Pos: env.tiles.CellToWorld(c), Speed: 4}
}

const dt = 0.05

func tick(env *stubEnv, n uint64) {
	RunPlanningSystem(env, n)
	RunMovementSystem(env, dt, n)
}

func runUntilIdle(t *testing.T, env *stubEnv, u *modelpkg.Unit, limit int) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		tick(env, uint64(i))
		if u.Move.Destination == nil && u.Moving == nil {
			return i
		}
	}
	t.Fatalf("unit %s still moving after %d ticks (cell=%v path=%v)", u.ID, limit, u.Cell, u.Move.Path)
	return 0
}

func hasEvent(u *modelpkg.Unit, typ string) bool {
	for _, e := range u.Events {
		if e["type"] == typ {
			return true
		}
	}
	return false
}

func TestMoveArrivesExactlyOnCellCentre(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{})
	env.units = []*modelpkg.Unit{u}

	dest := grid.Coords{X: 7, Y: 3}
	HandleMoveCommand(u, dest)
	runUntilIdle(t, env, u, 500)

	if u.Cell != dest {
		t.Fatalf("cell=%v want %v", u.Cell, dest)
	}
	if want := env.tiles.CellToWorld(dest); u.Pos != want {
		t.Fatalf("pos=%v want exact %v", u.Pos, want)
	}
	if env.tiles.WorldToCell(u.Pos) != u.Cell {
		t.Fatalf("cell/pos disagree: %v vs %v", u.Cell, u.Pos)
	}
	if u.Move.Path != nil {
		t.Fatalf("path should be cleared on arrival: %v", u.Move.Path)
	}
	if !hasEvent(u, protocol.EvMoveDone) {
		t.Fatalf("expected %s event", protocol.EvMoveDone)
	}
}

func TestCellChangesOnlyAtStepCompletion(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{})
	env.units = []*modelpkg.Unit{u}
	HandleMoveCommand(u, grid.Coords{X: 1})

	tick(env, 1)
	if u.Moving == nil {
		t.Fatalf("expected step in flight")
	}
	if u.Cell != (grid.Coords{}) {
		t.Fatalf("cell changed mid-step: %v", u.Cell)
	}
	if u.Pos.X <= 16 || u.Pos.X >= 48 {
		t.Fatalf("pos should be between centres, got %v", u.Pos)
	}
	runUntilIdle(t, env, u, 50)
	if u.Cell != (grid.Coords{X: 1}) {
		t.Fatalf("cell=%v want (1,0)", u.Cell)
	}
}

func TestMoveToSameCellCompletesImmediately(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{X: 2, Y: 2})
	env.units = []*modelpkg.Unit{u}
	HandleMoveCommand(u, u.Cell)
	tick(env, 1)
	if u.Move.Active() || u.Moving != nil {
		t.Fatalf("expected idle unit")
	}
	if !hasEvent(u, protocol.EvMoveDone) {
		t.Fatalf("expected %s event", protocol.EvMoveDone)
	}
}

func TestMoveTooFarFailsWithoutMoving(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{})
	env.units = []*modelpkg.Unit{u}
	HandleMoveCommand(u, grid.Coords{X: 31})
	tick(env, 1)
	if u.Move.Active() || u.Moving != nil {
		t.Fatalf("unit should be idle after failed plan")
	}
	if len(u.Events) != 1 || u.Events[0]["code"] != protocol.ErrTooFar {
		t.Fatalf("events=%v", u.Events)
	}
	if env.logs != 1 {
		t.Fatalf("expected failure to be logged once, got %d", env.logs)
	}
}

func TestMoveIntoEnclosedCellFails(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{})
	env.units = []*modelpkg.Unit{u}
	goal := grid.Coords{X: 5, Y: 5}
	for _, d := range grid.Neighbors8 {
		env.blocked[goal.Add(d[0], d[1])] = true
	}
	HandleMoveCommand(u, goal)
	tick(env, 1)
	if u.Move.Active() {
		t.Fatalf("destination should be cleared")
	}
	if len(u.Events) != 1 || u.Events[0]["code"] != protocol.ErrNoPath {
		t.Fatalf("events=%v", u.Events)
	}
}

func TestNewMoveSupersedesAfterInFlightStep(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{})
	env.units = []*modelpkg.Unit{u}
	HandleMoveCommand(u, grid.Coords{X: 5})
	tick(env, 1)
	tick(env, 2)
	if u.Moving == nil || u.Moving.ToCell != (grid.Coords{X: 1}) {
		t.Fatalf("expected step toward (1,0), got %+v", u.Moving)
	}

	dest := grid.Coords{X: 0, Y: 4}
	HandleMoveCommand(u, dest)
	if u.Moving == nil {
		t.Fatalf("in-flight step must not be cancelled")
	}
	for i := uint64(3); i < 10 && u.Moving != nil; i++ {
		tick(env, i)
	}
	if u.Cell != (grid.Coords{X: 1}) {
		t.Fatalf("in-flight step should finish at (1,0), got %v", u.Cell)
	}
	runUntilIdle(t, env, u, 200)
	if u.Cell != dest {
		t.Fatalf("cell=%v want %v", u.Cell, dest)
	}
}

func TestBlockedHeadCellTriggersReplan(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{})
	env.units = []*modelpkg.Unit{u}
	dest := grid.Coords{X: 4}
	HandleMoveCommand(u, dest)

	var n uint64
	for n = 1; u.Cell != (grid.Coords{X: 1}); n++ {
		tick(env, n)
		if n > 50 {
			t.Fatalf("first step never completed")
		}
	}
	if len(u.Move.Path) == 0 || u.Move.Path[0] != (grid.Coords{X: 2}) {
		t.Fatalf("expected straight path, got %v", u.Move.Path)
	}
	env.blocked[grid.Coords{X: 2}] = true

	RunMovementSystem(env, dt, n)
	if u.Move.Path != nil || u.Move.Destination == nil {
		t.Fatalf("expected path dropped and destination kept: %+v", u.Move)
	}
	if !hasEvent(u, protocol.EvMoveReplan) {
		t.Fatalf("expected %s event", protocol.EvMoveReplan)
	}

	runUntilIdle(t, env, u, 300)
	if u.Cell != dest {
		t.Fatalf("cell=%v want %v", u.Cell, dest)
	}
}

func TestStopClearsDestinationButFinishesStep(t *testing.T) {
	env := newStubEnv()
	u := newUnit(env, "A1", grid.Coords{})
	env.units = []*modelpkg.Unit{u}
	HandleMoveCommand(u, grid.Coords{X: 5})
	tick(env, 1)
	HandleStopCommand(u)
	runUntilIdle(t, env, u, 20)
	if u.Cell != (grid.Coords{X: 1}) {
		t.Fatalf("cell=%v want (1,0)", u.Cell)
	}
	if want := env.tiles.CellToWorld(u.Cell); u.Pos != want {
		t.Fatalf("pos=%v want %v", u.Pos, want)
	}
}
