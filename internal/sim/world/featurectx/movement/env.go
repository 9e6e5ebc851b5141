package movement

import (
	"tilerts.ai/internal/sim/grid"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
	logicmovement "tilerts.ai/internal/sim/world/logic/movement"
	"tilerts.ai/internal/sim/world/logic/pathfind"
)

type Env struct {
	SortedUnitsFn func() []*modelpkg.Unit
	BlockedFn     func(c grid.Coords) bool
	PlanOptionsFn func() pathfind.Options
	TilesFn       func() logicmovement.Tiles
	LogfFn        func(format string, args ...any)
}

func (e Env) SortedUnits() []*modelpkg.Unit {
	if e.SortedUnitsFn == nil {
		return nil
	}
	return e.SortedUnitsFn()
}

func (e Env) Blocked(c grid.Coords) bool {
	if e.BlockedFn == nil {
		return false
	}
	return e.BlockedFn(c)
}

func (e Env) PlanOptions() pathfind.Options {
	if e.PlanOptionsFn == nil {
		return pathfind.Options{Heuristic: pathfind.Octile}
	}
	return e.PlanOptionsFn()
}

func (e Env) Tiles() logicmovement.Tiles {
	if e.TilesFn == nil {
		return logicmovement.Tiles{Size: 1}
	}
	return e.TilesFn()
}

func (e Env) Logf(format string, args ...any) {
	if e.LogfFn == nil {
		return
	}
	e.LogfFn(format, args...)
}
