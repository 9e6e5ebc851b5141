package model

import (
	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tasks"
)

const (
	StateIdle    = "IDLE"
	StateWalking = "WALKING"
)

type Unit struct {
	ID   string
	Name string

	// Pos is the world-space position; Cell is authoritative for gameplay.
	Pos   grid.Vec2
	Cell  grid.Coords
	Speed float64

	Move   tasks.MoveTarget
	Moving *tasks.Moving

	Intent    *tasks.GatherIntent
	Gather    *tasks.GatherTask
	Construct *tasks.ConstructTask

	Inventory Inventory
	Skills    Skills

	Events []protocol.Event
}

func (u *Unit) AddEvent(e protocol.Event) {
	u.Events = append(u.Events, e)
}

// TakeEvents drains the events emitted since the last call.
func (u *Unit) TakeEvents() []protocol.Event {
	out := u.Events
	u.Events = nil
	return out
}

func (u *Unit) MovementState() string {
	if u.Moving != nil || u.Move.Active() {
		return StateWalking
	}
	return StateIdle
}

// ClearWork drops any gathering or construction record.
func (u *Unit) ClearWork() {
	u.Intent = nil
	u.Gather = nil
	u.Construct = nil
}
