package mining

import (
	"math"

	"tilerts.ai/internal/sim/catalogs"
)

// DefaultBaseTime is used for kinds missing from the catalog.
const DefaultBaseTime = 1.0

// BaseTime returns the skill-seconds of work one harvest cycle of kind needs.
func BaseTime(res catalogs.ResourceCatalog, kind catalogs.ResourceKind) float64 {
	if d, ok := res.ByID[kind]; ok && d.BaseTime > 0 {
		return d.BaseTime
	}
	return DefaultBaseTime
}

// Yield is 1 + floor(skill/divisor). A non-positive divisor disables the bonus.
func Yield(skill, divisor float64) int {
	if divisor <= 0 || skill <= 0 {
		return 1
	}
	return 1 + int(math.Floor(skill/divisor))
}

// Advance accumulates skill-scaled work and reports whether a cycle finished.
func Advance(progress, skill, dt, baseTime float64) (float64, bool) {
	progress += skill * dt
	return progress, progress >= baseTime
}
