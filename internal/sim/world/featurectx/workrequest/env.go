package workrequest

import (
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type Env struct {
	NewTaskIDFn     func() string
	NewBuildingIDFn func() string
	NodeByIDFn      func(id string) *modelpkg.ResourceNode
	BuildingDefFn   func(kind catalogs.BuildingKind) (catalogs.BuildingDef, bool)
	BuildingAtFn    func(c grid.Coords) *modelpkg.Building
	BlockedFn       func(c grid.Coords) bool
	MaxDistanceFn   func() float64
	PlaceBuildingFn func(b *modelpkg.Building, nowTick uint64)
}

func (e Env) NewTaskID() string {
	if e.NewTaskIDFn == nil {
		return ""
	}
	return e.NewTaskIDFn()
}

func (e Env) NewBuildingID() string {
	if e.NewBuildingIDFn == nil {
		return ""
	}
	return e.NewBuildingIDFn()
}

func (e Env) NodeByID(id string) *modelpkg.ResourceNode {
	if e.NodeByIDFn == nil {
		return nil
	}
	return e.NodeByIDFn(id)
}

func (e Env) BuildingDef(kind catalogs.BuildingKind) (catalogs.BuildingDef, bool) {
	if e.BuildingDefFn == nil {
		return catalogs.BuildingDef{}, false
	}
	return e.BuildingDefFn(kind)
}

func (e Env) BuildingAt(c grid.Coords) *modelpkg.Building {
	if e.BuildingAtFn == nil {
		return nil
	}
	return e.BuildingAtFn(c)
}

// Blocked treats every cell as blocked when no obstacle view is wired.
func (e Env) Blocked(c grid.Coords) bool {
	if e.BlockedFn == nil {
		return true
	}
	return e.BlockedFn(c)
}

func (e Env) MaxDistance() float64 {
	if e.MaxDistanceFn == nil {
		return 0
	}
	return e.MaxDistanceFn()
}

func (e Env) PlaceBuilding(b *modelpkg.Building, nowTick uint64) {
	if e.PlaceBuildingFn == nil {
		return
	}
	e.PlaceBuildingFn(b, nowTick)
}
