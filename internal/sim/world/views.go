package world

import (
	"context"
	"sort"

	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/world/feature/work/progress"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

// UnitView is a read-only copy of the state presentation needs for one unit.
type UnitView struct {
	ID           string                               `json:"id"`
	Name         string                               `json:"name"`
	Pos          grid.Vec2                            `json:"pos"`
	Cell         grid.Coords                          `json:"cell"`
	Selected     bool                                 `json:"selected,omitempty"`
	State        string                               `json:"state"`
	Destination  *grid.Coords                         `json:"destination,omitempty"`
	Gathering    *GatheringView                       `json:"gathering,omitempty"`
	GatherTarget string                               `json:"gather_target,omitempty"`
	BuildTarget  string                               `json:"build_target,omitempty"`
	Inventory    map[catalogs.ResourceKind]int        `json:"inventory"`
	Skills       map[modelpkg.Activity]modelpkg.Skill `json:"skills"`
}

type GatheringView struct {
	Kind     catalogs.ResourceKind `json:"kind"`
	Progress float64               `json:"progress"`
	BaseTime float64               `json:"base_time"`
	Fraction float64               `json:"fraction"`
}

type NodeView struct {
	ID       string                `json:"id"`
	Kind     catalogs.ResourceKind `json:"kind"`
	Cell     grid.Coords           `json:"cell"`
	Quantity int                   `json:"quantity"`
}

type BuildingView struct {
	ID       string                `json:"id"`
	Kind     catalogs.BuildingKind `json:"kind"`
	Cell     grid.Coords           `json:"cell"`
	Owner    string                `json:"owner"`
	Fraction float64               `json:"fraction"`
	Complete bool                  `json:"complete"`
}

type Views struct {
	Tick      uint64         `json:"tick"`
	Units     []UnitView     `json:"units"`
	Nodes     []NodeView     `json:"nodes"`
	Buildings []BuildingView `json:"buildings"`
}

type viewRequest struct {
	Resp chan Views
}

// UnitViews must only be called from the world goroutine or while the world
// is not running; use RequestViews otherwise.
func (w *World) UnitViews() []UnitView {
	selected := map[string]bool{}
	for _, id := range w.selection {
		selected[id] = true
	}
	out := make([]UnitView, 0, len(w.units))
	for _, u := range w.sortedUnits() {
		v := UnitView{
			ID:       u.ID,
			Name:     u.Name,
			Pos:      u.Pos,
			Cell:     u.Cell,
			Selected: selected[u.ID],
			State:    u.MovementState(),
			Skills:   map[modelpkg.Activity]modelpkg.Skill{},
		}
		if d := u.Move.Destination; d != nil {
			c := *d
			v.Destination = &c
		}
		if g := u.Gather; g != nil {
			v.Gathering = &GatheringView{
				Kind:     g.Kind,
				Progress: g.Progress,
				BaseTime: g.BaseTime,
				Fraction: progress.TimedProgress(g.Progress, g.BaseTime),
			}
			v.GatherTarget = g.Target
		} else if in := u.Intent; in != nil {
			v.GatherTarget = in.Target
		}
		if ct := u.Construct; ct != nil {
			v.BuildTarget = ct.Target
		}
		if u.Inventory != nil {
			v.Inventory = u.Inventory.Contents()
		}
		for a, sk := range u.Skills {
			if sk != nil {
				v.Skills[a] = *sk
			}
		}
		out = append(out, v)
	}
	return out
}

func (w *World) NodeViews() []NodeView {
	out := make([]NodeView, 0, len(w.nodes))
	for _, n := range w.nodes {
		out = append(out, NodeView{ID: n.ID, Kind: n.Kind, Cell: n.Cell, Quantity: n.Quantity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) BuildingViews() []BuildingView {
	out := make([]BuildingView, 0, len(w.buildings))
	for _, b := range w.buildings {
		out = append(out, BuildingView{
			ID:       b.ID,
			Kind:     b.Kind,
			Cell:     b.Cell,
			Owner:    b.Owner,
			Fraction: progress.TimedProgress(b.Progress, b.BuildTime),
			Complete: b.Complete,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) views() Views {
	return Views{Tick: w.tick.Load(), Units: w.UnitViews(), Nodes: w.NodeViews(), Buildings: w.BuildingViews()}
}

func (w *World) handleViewRequest(req viewRequest) {
	if req.Resp == nil {
		return
	}
	req.Resp <- w.views()
}

// RequestViews asks the running world loop for a consistent copy of all views.
func (w *World) RequestViews(ctx context.Context) (Views, error) {
	req := viewRequest{Resp: make(chan Views, 1)}
	select {
	case w.viewReq <- req:
	case <-ctx.Done():
		return Views{}, ctx.Err()
	}
	select {
	case v := <-req.Resp:
		return v, nil
	case <-ctx.Done():
		return Views{}, ctx.Err()
	}
}
