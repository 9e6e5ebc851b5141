package tasks

import (
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
)

type Kind string

const (
	KindMove      Kind = "MOVE"
	KindGather    Kind = "GATHER"
	KindConstruct Kind = "CONSTRUCT"
)

// MoveTarget is owned by every movable unit. A destination with an empty path
// means a plan is pending; clearing the destination always clears the path.
type MoveTarget struct {
	Destination *grid.Coords
	Path        []grid.Coords
}

func (m *MoveTarget) Set(dest grid.Coords) {
	d := dest
	m.Destination = &d
	m.Path = nil
}

func (m *MoveTarget) Clear() {
	m.Destination = nil
	m.Path = nil
}

func (m *MoveTarget) Active() bool { return m.Destination != nil }

// Moving exists only while a unit interpolates between two adjacent cells.
type Moving struct {
	From     grid.Vec2
	To       grid.Vec2
	ToCell   grid.Coords
	Progress float64
}

// GatherIntent is the pre-harvest commitment to a node, pending approach.
type GatherIntent struct {
	TaskID      string
	Target      string
	Kind        catalogs.ResourceKind
	Approach    grid.Coords
	StartedTick uint64
}

// GatherTask is an active harvest against a live node.
type GatherTask struct {
	TaskID        string
	Target        string
	Kind          catalogs.ResourceKind
	Progress      float64
	BaseTime      float64
	SkillModifier float64
	StartedTick   uint64
}

// ConstructTask drives a unit to a building site and accumulates build work.
type ConstructTask struct {
	TaskID      string
	Target      string
	Approach    grid.Coords
	Active      bool
	StartedTick uint64
}
