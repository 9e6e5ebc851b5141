package world

import "tilerts.ai/internal/sim/grid"

// ObstacleIndex is the collider set used by the planner: static level cells
// plus the cells of live resource nodes and buildings.
type ObstacleIndex struct {
	static    map[grid.Coords]bool
	nodes     map[grid.Coords]string
	buildings map[grid.Coords]string
}

func NewObstacleIndex() *ObstacleIndex {
	return &ObstacleIndex{
		static:    map[grid.Coords]bool{},
		nodes:     map[grid.Coords]string{},
		buildings: map[grid.Coords]string{},
	}
}

func (o *ObstacleIndex) Blocked(c grid.Coords) bool {
	if o == nil {
		return false
	}
	if o.static[c] {
		return true
	}
	if _, ok := o.nodes[c]; ok {
		return true
	}
	_, ok := o.buildings[c]
	return ok
}

func (o *ObstacleIndex) AddStatic(c grid.Coords) { o.static[c] = true }

func (o *ObstacleIndex) NodeAt(c grid.Coords) (string, bool) {
	id, ok := o.nodes[c]
	return id, ok
}

func (o *ObstacleIndex) BuildingAt(c grid.Coords) (string, bool) {
	id, ok := o.buildings[c]
	return id, ok
}

func (o *ObstacleIndex) setNode(c grid.Coords, id string)     { o.nodes[c] = id }
func (o *ObstacleIndex) clearNode(c grid.Coords)              { delete(o.nodes, c) }
func (o *ObstacleIndex) setBuilding(c grid.Coords, id string) { o.buildings[c] = id }

func (o *ObstacleIndex) StaticCount() int { return len(o.static) }
