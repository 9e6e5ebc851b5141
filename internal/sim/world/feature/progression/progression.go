package progression

import (
	"tilerts.ai/internal/sim/catalogs"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

// Rules holds the skill-up thresholds. Threshold is scaled by the current level.
type Rules struct {
	XPPerSecond float64
	Threshold   float64
	Step        float64
}

// ActivityFor maps a resource kind to the skill that harvesting it trains.
func ActivityFor(kind catalogs.ResourceKind) modelpkg.Activity {
	switch kind {
	case catalogs.Wood:
		return modelpkg.Woodcutting
	case catalogs.Gold, catalogs.Stone:
		return modelpkg.Mining
	default:
		return modelpkg.Harvesting
	}
}

// Value returns the current effectiveness of activity, 1.0 for untrained units.
func Value(skills modelpkg.Skills, a modelpkg.Activity) float64 {
	if skills == nil {
		return 1
	}
	if sk := skills[a]; sk != nil {
		return sk.Level
	}
	return 1
}

// Accrue adds xp to activity and applies at most one level-up. It reports
// whether the level changed.
func Accrue(skills modelpkg.Skills, a modelpkg.Activity, xp float64, r Rules) bool {
	if skills == nil || xp <= 0 {
		return false
	}
	sk := skills.Get(a)
	sk.XP += xp
	if sk.XP < r.Threshold*sk.Level {
		return false
	}
	sk.XP = 0
	sk.Level += r.Step
	return true
}

// AccrueTime grants continuous experience for dt seconds of work.
func AccrueTime(skills modelpkg.Skills, a modelpkg.Activity, dt float64, r Rules) bool {
	return Accrue(skills, a, r.XPPerSecond*dt, r)
}
