package runtime

import (
	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tasks"
	logicmovement "tilerts.ai/internal/sim/world/logic/movement"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type MovementSystemEnv interface {
	SortedUnits() []*modelpkg.Unit
	Blocked(c grid.Coords) bool
	Tiles() logicmovement.Tiles
}

// RunMovementSystem advances every unit with a planned path by one tick.
func RunMovementSystem(env MovementSystemEnv, dt float64, nowTick uint64) {
	if env == nil {
		return
	}
	tiles := env.Tiles()
	for _, u := range env.SortedUnits() {
		StepUnit(env, tiles, u, dt, nowTick)
	}
}

// StepUnit runs the Idle -> StepPending -> Interpolating machine for one unit.
func StepUnit(env MovementSystemEnv, tiles logicmovement.Tiles, u *modelpkg.Unit, dt float64, nowTick uint64) {
	if u.Moving == nil {
		if len(u.Move.Path) == 0 {
			return
		}
		if u.Move.Destination == nil {
			u.Move.Path = nil
			return
		}
		next := u.Move.Path[0]
		if env.Blocked(next) {
			// Keep the destination; the planner routes around the new obstacle next tick.
			u.Move.Path = nil
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvMoveReplan, "cell": cellJSON(next)})
			return
		}
		u.Moving = &tasks.Moving{From: u.Pos, To: tiles.CellToWorld(next), ToCell: next}
	}

	m := u.Moving
	var done bool
	m.Progress, done = logicmovement.Advance(m.Progress, u.Speed, dt)
	if !done {
		u.Pos = m.From.Lerp(m.To, m.Progress)
		return
	}

	// Snap and derive the cell from the exact target position, never by accumulation.
	u.Pos = m.To
	u.Cell = tiles.WorldToCell(m.To)
	u.Moving = nil
	if len(u.Move.Path) > 0 && u.Move.Path[0] == m.ToCell {
		u.Move.Path = u.Move.Path[1:]
	}
	if d := u.Move.Destination; d != nil && *d == u.Cell {
		u.Move.Clear()
		u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvMoveDone, "cell": cellJSON(u.Cell)})
	}
}
