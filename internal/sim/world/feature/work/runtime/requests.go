package runtime

import (
	"fmt"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tasks"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type GatherRequestEnv interface {
	NewTaskID() string
	NodeByID(id string) *modelpkg.ResourceNode
	Blocked(c grid.Coords) bool
	MaxDistance() float64
}

func gatherFail(nowTick uint64, target string, code string, message string) protocol.Event {
	return protocol.Event{"t": nowTick, "type": protocol.EvGatherFail, "target": target, "code": code, "message": message}
}

// HandleGatherCommand records a gathering intent against nodeID and sends the
// unit toward the nearest free cell next to it. Any previous movement or work
// is dropped first.
func HandleGatherCommand(env GatherRequestEnv, u *modelpkg.Unit, nodeID string, nowTick uint64) {
	if env == nil {
		u.AddEvent(gatherFail(nowTick, nodeID, protocol.ErrInternal, "gather env unavailable"))
		return
	}
	node := env.NodeByID(nodeID)
	if node.Depleted() {
		u.AddEvent(gatherFail(nowTick, nodeID, protocol.ErrInvalidTarget, "resource node not found"))
		return
	}

	u.ClearWork()
	u.Move.Clear()

	approach, ok := SelectApproachCell(node.Cell, u.Cell, env.Blocked)
	if !ok {
		u.AddEvent(gatherFail(nowTick, nodeID, protocol.ErrBlocked, "no free cell next to resource"))
		return
	}
	if max := env.MaxDistance(); max > 0 && grid.Euclid(u.Cell, approach) > max {
		u.AddEvent(gatherFail(nowTick, nodeID, protocol.ErrTooFar, fmt.Sprintf("approach cell %v is farther than %.0f", approach, max)))
		return
	}

	u.Intent = &tasks.GatherIntent{
		TaskID:      env.NewTaskID(),
		Target:      node.ID,
		Kind:        node.Kind,
		Approach:    approach,
		StartedTick: nowTick,
	}
	u.Move.Set(approach)
}

// SelectApproachCell picks, among the cells at Chebyshev distance 1 from
// resource, the one closest to unit by squared Euclidean distance. Ties go to
// the earlier cell in grid.Neighbors8 order. Cells for which blocked reports
// true are skipped, unless they are the unit's own cell.
func SelectApproachCell(resource, unit grid.Coords, blocked func(grid.Coords) bool) (grid.Coords, bool) {
	var (
		best   grid.Coords
		bestD  int
		picked bool
	)
	for _, d := range grid.Neighbors8 {
		c := resource.Add(d[0], d[1])
		if grid.Chebyshev(c, resource) != 1 {
			continue
		}
		if blocked != nil && c != unit && blocked(c) {
			continue
		}
		dist := grid.DistSq(c, unit)
		if !picked || dist < bestD {
			best, bestD, picked = c, dist, true
		}
	}
	return best, picked
}
