package runtime

import (
	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/world/feature/economy/inventory"
	"tilerts.ai/internal/sim/world/feature/progression"
	"tilerts.ai/internal/sim/world/feature/work/mining"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type GatheringEnv interface {
	SortedUnits() []*modelpkg.Unit
	NodeByID(id string) *modelpkg.ResourceNode
	RemoveNode(id string, nowTick uint64)
	YieldDivisor() float64
	SkillRules() progression.Rules
}

// HarvestRecord describes one completed harvest cycle.
type HarvestRecord struct {
	Tick     uint64
	UnitID   string
	NodeID   string
	Kind     catalogs.ResourceKind
	Amount   int
	Depleted bool
}

type nodeSnapshot struct {
	exists   bool
	kind     catalogs.ResourceKind
	cell     grid.Coords
	quantity int
}

type gatherOutcome struct {
	u        *modelpkg.Unit
	node     *modelpkg.ResourceNode
	abort    string
	message  string
	skill    float64
	progress float64
	cycle    bool
}

// TickGathering advances every active harvest. The first pass reads a
// snapshot of all referenced nodes and decides each outcome; the second pass
// applies node, inventory and skill writes one unit at a time in ID order.
func TickGathering(env GatheringEnv, dt float64, nowTick uint64) []HarvestRecord {
	if env == nil {
		return nil
	}
	units := env.SortedUnits()

	snap := map[string]nodeSnapshot{}
	for _, u := range units {
		if u.Gather == nil {
			continue
		}
		id := u.Gather.Target
		if _, ok := snap[id]; ok {
			continue
		}
		n := env.NodeByID(id)
		if n.Depleted() {
			snap[id] = nodeSnapshot{}
			continue
		}
		snap[id] = nodeSnapshot{exists: true, kind: n.Kind, cell: n.Cell, quantity: n.Quantity}
	}

	outcomes := make([]gatherOutcome, 0, len(snap))
	for _, u := range units {
		g := u.Gather
		if g == nil {
			continue
		}
		s := snap[g.Target]
		o := gatherOutcome{u: u}
		switch {
		case !s.exists:
			o.abort, o.message = protocol.ErrInvalidTarget, "resource node no longer exists"
		case s.kind != g.Kind:
			o.abort, o.message = protocol.ErrKindMismatch, "resource kind changed"
		case !grid.Within(u.Cell, s.cell):
			o.abort, o.message = protocol.ErrTooFar, "unit left the resource"
		default:
			o.node = env.NodeByID(g.Target)
			o.skill = progression.Value(u.Skills, progression.ActivityFor(g.Kind))
			o.progress, o.cycle = mining.Advance(g.Progress, o.skill, dt, g.BaseTime)
		}
		outcomes = append(outcomes, o)
	}

	rules := env.SkillRules()
	divisor := env.YieldDivisor()
	var records []HarvestRecord
	for _, o := range outcomes {
		u := o.u
		g := u.Gather
		if o.abort != "" {
			u.Gather = nil
			u.AddEvent(gatherFail(nowTick, g.Target, o.abort, o.message))
			continue
		}

		activity := progression.ActivityFor(g.Kind)
		if progression.AccrueTime(u.Skills, activity, dt, rules) {
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvSkillUp, "skill": string(activity), "level": u.Skills.Get(activity).Level})
		}
		g.SkillModifier = o.skill
		g.Progress = o.progress
		if !o.cycle {
			continue
		}

		if o.node.Depleted() {
			// Drained by an earlier gatherer in this pass.
			u.Gather = nil
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvGatherDone, "target": g.Target, "reason": "DEPLETED"})
			continue
		}
		yield := mining.Yield(o.skill, divisor)
		take := 0
		if u.Inventory != nil {
			take = min(yield, u.Inventory.Room(g.Kind))
		}
		// take never exceeds the room, so everything extracted is stored.
		stored := inventory.Deposit(u.Inventory, g.Kind, inventory.Extract(o.node, take))
		depleted := o.node.Depleted()
		if stored > 0 {
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvHarvest, "target": g.Target, "kind": string(g.Kind), "amount": stored})
			records = append(records, HarvestRecord{Tick: nowTick, UnitID: u.ID, NodeID: g.Target, Kind: g.Kind, Amount: stored, Depleted: depleted})
		}
		if depleted {
			env.RemoveNode(g.Target, nowTick)
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvNodeDepleted, "target": g.Target})
			u.Gather = nil
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvGatherDone, "target": g.Target, "reason": "DEPLETED"})
			continue
		}
		if take < yield {
			u.Gather = nil
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvGatherDone, "target": g.Target, "reason": "INVENTORY_FULL", "code": protocol.ErrInventoryFull})
			continue
		}
		g.Progress = 0
	}
	return records
}
