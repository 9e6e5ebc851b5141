package world

import (
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/world/feature/progression"
	"tilerts.ai/internal/sim/world/feature/work/mining"
	movementctxpkg "tilerts.ai/internal/sim/world/featurectx/movement"
	workexecctxpkg "tilerts.ai/internal/sim/world/featurectx/workexec"
	workrequestctxpkg "tilerts.ai/internal/sim/world/featurectx/workrequest"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
	logicmovement "tilerts.ai/internal/sim/world/logic/movement"
	"tilerts.ai/internal/sim/world/logic/pathfind"
)

func (w *World) planOptions() pathfind.Options {
	p := w.tune.Pathing
	return pathfind.Options{
		MaxDistance: p.MaxDistance,
		Margin:      p.SearchMargin,
		Heuristic:   pathfind.HeuristicByName(p.Heuristic),
	}
}

func (w *World) skillRules() progression.Rules {
	g := w.tune.Gathering
	return progression.Rules{XPPerSecond: g.XPPerSecond, Threshold: g.SkillThreshold, Step: g.SkillStep}
}

func newMovementEnv(w *World) movementctxpkg.Env {
	return movementctxpkg.Env{
		SortedUnitsFn: w.sortedUnits,
		BlockedFn:     w.Blocked,
		PlanOptionsFn: w.planOptions,
		TilesFn:       func() logicmovement.Tiles { return w.tiles },
		LogfFn:        w.logger.Printf,
	}
}

func newWorkRequestEnv(w *World) workrequestctxpkg.Env {
	return workrequestctxpkg.Env{
		NewTaskIDFn:     w.newTaskID,
		NewBuildingIDFn: w.newBuildingID,
		NodeByIDFn:      w.Node,
		BuildingDefFn: func(kind catalogs.BuildingKind) (catalogs.BuildingDef, bool) {
			def, ok := w.catalogs.Buildings.ByID[kind]
			return def, ok
		},
		BuildingAtFn:    w.buildingAt,
		BlockedFn:       w.Blocked,
		MaxDistanceFn:   func() float64 { return w.tune.Pathing.MaxDistance },
		PlaceBuildingFn: w.placeBuilding,
	}
}

func newWorkExecEnv(w *World) workexecctxpkg.Env {
	return workexecctxpkg.Env{
		SortedUnitsFn: w.sortedUnits,
		NodeByIDFn: func(id string) *modelpkg.ResourceNode {
			return w.nodes[id]
		},
		RemoveNodeFn:   w.removeNode,
		BuildingByIDFn: w.Building,
		BaseTimeFn: func(kind catalogs.ResourceKind) float64 {
			return mining.BaseTime(w.catalogs.Resources, kind)
		},
		YieldDivisorFn: func() float64 { return w.tune.Gathering.YieldDivisor },
		SkillRulesFn:   w.skillRules,
	}
}
