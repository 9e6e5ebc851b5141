package worldtest

import (
	"testing"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/scenario"
	"tilerts.ai/internal/sim/tuning"
	world "tilerts.ai/internal/sim/world"
)

// Harness is a small black-box test helper for driving a world via exported APIs:
// - commands go through StepOnce, exactly as a replay would apply them
// - every emitted event is kept in order for later assertions
// - Cell converts grid cells into the world positions commands carry
//
// It intentionally avoids touching world internals so tests can live outside the world package.
type Harness struct {
	T    *testing.T
	Cats *catalogs.Catalogs
	Tune tuning.Tuning
	W    *world.World

	Events  []world.UnitEvent
	Digests []string
	log     []world.TickLogEntry
}

func NewHarness(t *testing.T, cfg world.WorldConfig, cats *catalogs.Catalogs, tune tuning.Tuning) *Harness {
	t.Helper()
	w, err := world.New(cfg, cats, tune, nil)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	h := &Harness{T: t, Cats: cats, Tune: tune, W: w}
	w.SetTickLogger(h)
	return h
}

// NewHarnessFromScenario builds a world from scenario JSON with default
// catalogs and tuning.
func NewHarnessFromScenario(t *testing.T, raw string) (*Harness, *scenario.Scenario) {
	t.Helper()
	sc, err := scenario.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	h := NewHarness(t, sc.WorldConfig(), catalogs.Defaults(), tuning.Defaults())
	if err := sc.Apply(h.W); err != nil {
		t.Fatalf("apply scenario: %v", err)
	}
	return h, sc
}

// WriteTick records the tick log so tests can replay it into a fresh world.
func (h *Harness) WriteTick(e world.TickLogEntry) error {
	h.log = append(h.log, e)
	return nil
}

func (h *Harness) TickLog() []world.TickLogEntry {
	return append([]world.TickLogEntry(nil), h.log...)
}

func (h *Harness) Step(cmds ...protocol.Command) []world.UnitEvent {
	h.T.Helper()
	_, d := h.W.StepOnce(cmds)
	h.Digests = append(h.Digests, d)
	evs := h.W.LastEvents()
	h.Events = append(h.Events, evs...)
	return evs
}

// StepUntil steps with no commands until cond holds, failing after limit ticks.
func (h *Harness) StepUntil(limit int, cond func() bool) {
	h.T.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		h.Step()
	}
	if !cond() {
		h.T.Fatalf("condition not met after %d ticks (tick=%d)", limit, h.W.CurrentTick())
	}
}

// Cell returns the world position at the centre of c.
func (h *Harness) Cell(c grid.Coords) *[2]float64 {
	p := h.W.Tiles().CellToWorld(c)
	return &[2]float64{p.X, p.Y}
}

func (h *Harness) Move(unitID string, c grid.Coords) []world.UnitEvent {
	h.T.Helper()
	return h.Step(protocol.Command{Type: protocol.CmdMove, Units: []string{unitID}, Pos: h.Cell(c)})
}

func (h *Harness) Gather(unitID, nodeID string) []world.UnitEvent {
	h.T.Helper()
	return h.Step(protocol.Command{Type: protocol.CmdGather, Units: []string{unitID}, NodeID: nodeID})
}

func (h *Harness) Build(unitID, building string, c grid.Coords) []world.UnitEvent {
	h.T.Helper()
	return h.Step(protocol.Command{Type: protocol.CmdBuild, Units: []string{unitID}, Building: building, Pos: h.Cell(c)})
}

// EventsOf returns the recorded events of the given type, optionally
// restricted to one unit.
func (h *Harness) EventsOf(typ, unitID string) []protocol.Event {
	var out []protocol.Event
	for _, ue := range h.Events {
		if unitID != "" && ue.UnitID != unitID {
			continue
		}
		if ue.Event["type"] == typ {
			out = append(out, ue.Event)
		}
	}
	return out
}

// UnitView returns the presentation view of one unit.
func (h *Harness) UnitView(id string) world.UnitView {
	h.T.Helper()
	for _, v := range h.W.UnitViews() {
		if v.ID == id {
			return v
		}
	}
	h.T.Fatalf("unknown unit id: %q", id)
	return world.UnitView{}
}
