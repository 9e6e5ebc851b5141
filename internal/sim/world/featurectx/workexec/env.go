package workexec

import (
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/world/feature/progression"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type Env struct {
	SortedUnitsFn  func() []*modelpkg.Unit
	NodeByIDFn     func(id string) *modelpkg.ResourceNode
	RemoveNodeFn   func(id string, nowTick uint64)
	BuildingByIDFn func(id string) *modelpkg.Building
	BaseTimeFn     func(kind catalogs.ResourceKind) float64
	YieldDivisorFn func() float64
	SkillRulesFn   func() progression.Rules
}

func (e Env) SortedUnits() []*modelpkg.Unit {
	if e.SortedUnitsFn == nil {
		return nil
	}
	return e.SortedUnitsFn()
}

func (e Env) NodeByID(id string) *modelpkg.ResourceNode {
	if e.NodeByIDFn == nil {
		return nil
	}
	return e.NodeByIDFn(id)
}

func (e Env) RemoveNode(id string, nowTick uint64) {
	if e.RemoveNodeFn == nil {
		return
	}
	e.RemoveNodeFn(id, nowTick)
}

func (e Env) BuildingByID(id string) *modelpkg.Building {
	if e.BuildingByIDFn == nil {
		return nil
	}
	return e.BuildingByIDFn(id)
}

func (e Env) BaseTime(kind catalogs.ResourceKind) float64 {
	if e.BaseTimeFn == nil {
		return 1
	}
	return e.BaseTimeFn(kind)
}

func (e Env) YieldDivisor() float64 {
	if e.YieldDivisorFn == nil {
		return 0
	}
	return e.YieldDivisorFn()
}

func (e Env) SkillRules() progression.Rules {
	if e.SkillRulesFn == nil {
		return progression.Rules{}
	}
	return e.SkillRulesFn()
}
