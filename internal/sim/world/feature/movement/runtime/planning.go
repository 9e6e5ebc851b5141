package runtime

import (
	"errors"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/world/logic/pathfind"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type PlanningEnv interface {
	SortedUnits() []*modelpkg.Unit
	Blocked(c grid.Coords) bool
	PlanOptions() pathfind.Options
	Logf(format string, args ...any)
}

// RunPlanningSystem fills the path of every unit whose destination is set but
// not yet planned. Failures clear the destination; they are never fatal.
func RunPlanningSystem(env PlanningEnv, nowTick uint64) {
	if env == nil {
		return
	}
	opts := env.PlanOptions()
	for _, u := range env.SortedUnits() {
		if u.Move.Destination == nil {
			u.Move.Path = nil
			continue
		}
		if len(u.Move.Path) > 0 || u.Moving != nil {
			continue
		}
		dest := *u.Move.Destination
		path, err := pathfind.Plan(u.Cell, dest, env.Blocked, opts)
		if err != nil {
			code := protocol.ErrNoPath
			if errors.Is(err, pathfind.ErrTooFar) {
				code = protocol.ErrTooFar
			}
			u.Move.Clear()
			env.Logf("unit %s: plan %v -> %v: %v", u.ID, u.Cell, dest, err)
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvMoveFail, "code": code, "message": err.Error()})
			continue
		}
		if len(path) == 0 {
			u.Move.Clear()
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvMoveDone, "cell": cellJSON(u.Cell)})
			continue
		}
		u.Move.Path = path
	}
}

func cellJSON(c grid.Coords) [2]int { return [2]int{c.X, c.Y} }
