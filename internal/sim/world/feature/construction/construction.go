package construction

import (
	"fmt"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tasks"
	"tilerts.ai/internal/sim/world/feature/economy/inventory"
	"tilerts.ai/internal/sim/world/feature/progression"
	workruntime "tilerts.ai/internal/sim/world/feature/work/runtime"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type BuildRequestEnv interface {
	NewTaskID() string
	NewBuildingID() string
	BuildingDef(kind catalogs.BuildingKind) (catalogs.BuildingDef, bool)
	BuildingAt(c grid.Coords) *modelpkg.Building
	Blocked(c grid.Coords) bool
	MaxDistance() float64
	PlaceBuilding(b *modelpkg.Building, nowTick uint64)
}

type ConstructionEnv interface {
	SortedUnits() []*modelpkg.Unit
	BuildingByID(id string) *modelpkg.Building
	SkillRules() progression.Rules
}

// BuildRecord is emitted when a site is completed.
type BuildRecord struct {
	Tick       uint64
	UnitID     string
	BuildingID string
	Kind       catalogs.BuildingKind
}

// HandleBuildCommand pays for and places a construction site at cell, or
// joins an unfinished site of the same kind already there, and sends the unit
// to work on it.
func HandleBuildCommand(env BuildRequestEnv, u *modelpkg.Unit, kind catalogs.BuildingKind, cell grid.Coords, nowTick uint64) {
	fail := func(code, msg string) {
		u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvBuildFail, "building": string(kind), "code": code, "message": msg})
	}
	if env == nil {
		fail(protocol.ErrInternal, "build env unavailable")
		return
	}
	def, ok := env.BuildingDef(kind)
	if !ok {
		fail(protocol.ErrBadRequest, fmt.Sprintf("unknown building %q", kind))
		return
	}
	if max := env.MaxDistance(); max > 0 && grid.Euclid(u.Cell, cell) > max {
		fail(protocol.ErrTooFar, "build site too far")
		return
	}

	site := env.BuildingAt(cell)
	if site != nil && (site.Complete || site.Kind != kind) {
		fail(protocol.ErrBlocked, "cell occupied by another building")
		return
	}
	if site == nil && (cell == u.Cell || env.Blocked(cell)) {
		fail(protocol.ErrBlocked, "cell occupied")
		return
	}
	approach, ok := workruntime.SelectApproachCell(cell, u.Cell, env.Blocked)
	if !ok {
		fail(protocol.ErrBlocked, "no free cell next to site")
		return
	}

	if site == nil {
		if err := inventory.DeductCost(u.Inventory, def.CostMap()); err != nil {
			fail(protocol.ErrNoResource, err.Error())
			return
		}
		site = &modelpkg.Building{
			ID:        env.NewBuildingID(),
			Kind:      kind,
			Cell:      cell,
			Owner:     u.ID,
			BuildTime: def.BuildTime,
		}
		env.PlaceBuilding(site, nowTick)
	}

	u.ClearWork()
	u.Move.Set(approach)
	taskID := env.NewTaskID()
	u.Construct = &tasks.ConstructTask{TaskID: taskID, Target: site.ID, Approach: approach, StartedTick: nowTick}
	u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvBuildStart, "building_id": site.ID, "building": string(kind), "task_id": taskID})
}

// TickConstruction adds skill-scaled work to the sites of builders standing
// next to them and completes sites whose work reaches BuildTime.
func TickConstruction(env ConstructionEnv, dt float64, nowTick uint64) []BuildRecord {
	if env == nil {
		return nil
	}
	rules := env.SkillRules()
	var out []BuildRecord
	for _, u := range env.SortedUnits() {
		ct := u.Construct
		if ct == nil {
			continue
		}
		fail := func(code, msg string) {
			u.Construct = nil
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvBuildFail, "building_id": ct.Target, "code": code, "message": msg})
		}

		b := env.BuildingByID(ct.Target)
		if b == nil {
			u.Move.Clear()
			fail(protocol.ErrInvalidTarget, "building site no longer exists")
			continue
		}
		if b.Complete {
			u.Construct = nil
			continue
		}
		if u.Moving != nil {
			continue
		}
		if !grid.Within(u.Cell, b.Cell) {
			if ct.Active || !u.Move.Active() {
				fail(protocol.ErrBlocked, "could not reach building site")
			}
			continue
		}
		if !ct.Active {
			ct.Active = true
			u.Move.Clear()
		}

		b.Progress += progression.Value(u.Skills, modelpkg.Construction) * dt
		if progression.AccrueTime(u.Skills, modelpkg.Construction, dt, rules) {
			u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvSkillUp, "skill": string(modelpkg.Construction), "level": u.Skills.Get(modelpkg.Construction).Level})
		}
		if b.Progress < b.BuildTime {
			continue
		}
		b.Progress = b.BuildTime
		b.Complete = true
		u.Construct = nil
		u.AddEvent(protocol.Event{"t": nowTick, "type": protocol.EvBuildDone, "building_id": b.ID, "building": string(b.Kind)})
		out = append(out, BuildRecord{Tick: nowTick, UnitID: u.ID, BuildingID: b.ID, Kind: b.Kind})
	}
	return out
}
