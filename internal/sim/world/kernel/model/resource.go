package model

import (
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
)

// ResourceNode is a collider holding an extractable quantity of one kind.
// Quantity only decreases; the world removes the node when it reaches 0.
type ResourceNode struct {
	ID       string
	Kind     catalogs.ResourceKind
	Cell     grid.Coords
	Quantity int
}

func (n *ResourceNode) Depleted() bool { return n == nil || n.Quantity <= 0 }
