package runtime

import (
	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tasks"
	"tilerts.ai/internal/sim/world/feature/progression"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type GatherIntentEnv interface {
	SortedUnits() []*modelpkg.Unit
	NodeByID(id string) *modelpkg.ResourceNode
	BaseTime(kind catalogs.ResourceKind) float64
}

// TickGatherIntent promotes intents to active gathering once the unit is
// close enough and standing still, and drops intents whose target went stale.
func TickGatherIntent(env GatherIntentEnv, nowTick uint64) {
	if env == nil {
		return
	}
	for _, u := range env.SortedUnits() {
		in := u.Intent
		if in == nil {
			continue
		}
		node := env.NodeByID(in.Target)
		if node.Depleted() {
			abortIntent(u, nowTick, protocol.ErrInvalidTarget, "resource node no longer exists")
			continue
		}
		if node.Kind != in.Kind {
			abortIntent(u, nowTick, protocol.ErrKindMismatch, "resource kind changed")
			continue
		}
		if u.Moving != nil {
			continue
		}
		if grid.Within(u.Cell, node.Cell) {
			u.Move.Clear()
			u.Intent = nil
			u.Gather = &tasks.GatherTask{
				TaskID:        in.TaskID,
				Target:        node.ID,
				Kind:          node.Kind,
				BaseTime:      env.BaseTime(node.Kind),
				SkillModifier: progression.Value(u.Skills, progression.ActivityFor(node.Kind)),
				StartedTick:   nowTick,
			}
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvGatherStart, "target": node.ID, "kind": string(node.Kind), "task_id": in.TaskID})
			continue
		}
		if !u.Move.Active() {
			// Planning gave up without reaching the node.
			abortIntent(u, nowTick, protocol.ErrBlocked, "could not reach resource")
		}
	}
}

func abortIntent(u *modelpkg.Unit, nowTick uint64, code, message string) {
	target := u.Intent.Target
	u.Intent = nil
	u.Move.Clear()
	u.AddEvent(gatherFail(nowTick, target, code, message))
}
