package model

import (
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
)

// Building is a construction site until Complete. Both states are colliders.
type Building struct {
	ID        string
	Kind      catalogs.BuildingKind
	Cell      grid.Coords
	Owner     string
	Progress  float64
	BuildTime float64
	Complete  bool
}
