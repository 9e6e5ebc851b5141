package worldtest

import (
	"testing"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
)

const villageScenario = `{
  "world": {"id": "village", "width": 32, "height": 32},
  "colliders": [[10, 3], [10, 4], [10, 5], [10, 6]],
  "units": [
    {"id": "U1", "cell": [2, 4]},
    {"id": "U2", "cell": [2, 6], "skills": {"WOODCUTTING": 4}},
    {"id": "U3", "cell": [4, 9], "inventory": {"wood": 20, "stone": 5}}
  ],
  "nodes": [
    {"id": "N1", "kind": "stone", "cell": [14, 5], "quantity": 9},
    {"id": "N2", "kind": "wood", "cell": [5, 14], "quantity": 15}
  ]
}`

func runVillage(t *testing.T) *Harness {
	h, _ := NewHarnessFromScenario(t, villageScenario)
	h.Step(protocol.Command{Type: protocol.CmdSelect, Units: []string{"U1", "U2"}})
	h.Step(protocol.Command{Type: protocol.CmdGather, NodeID: "N1"})
	h.Build("U3", "storehouse", grid.Coords{X: 6, Y: 10})
	for i := 0; i < 150; i++ {
		h.Step()
	}
	h.Gather("U2", "N2")
	for i := 0; i < 600; i++ {
		h.Step()
	}
	return h
}

func TestDeterminism_SameCommandsSameDigests(t *testing.T) {
	a := runVillage(t)
	b := runVillage(t)
	if len(a.Digests) != len(b.Digests) {
		t.Fatalf("length mismatch")
	}
	for i := range a.Digests {
		if a.Digests[i] != b.Digests[i] {
			t.Fatalf("digest diverged at tick %d", i)
		}
	}
}

func TestDeterminism_TickLogReplays(t *testing.T) {
	a := runVillage(t)

	b, _ := NewHarnessFromScenario(t, villageScenario)
	for _, entry := range a.TickLog() {
		if entry.Tick != b.W.CurrentTick() {
			t.Fatalf("tick gap: log=%d world=%d", entry.Tick, b.W.CurrentTick())
		}
		_, got := b.W.StepOnce(entry.Commands)
		if got != entry.Digest {
			t.Fatalf("digest mismatch at tick %d", entry.Tick)
		}
	}
	if b.W.CurrentTick() != a.W.CurrentTick() {
		t.Fatalf("replayed to %d, want %d", b.W.CurrentTick(), a.W.CurrentTick())
	}
	bv := b.W.BuildingViews()
	if len(bv) != 1 || !bv[0].Complete {
		t.Fatalf("storehouse should be finished: %+v", bv)
	}
}
