package world

import (
	"fmt"

	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tuning"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

// AddCollider marks a static level cell as impassable.
func (w *World) AddCollider(c grid.Coords) error {
	if !w.inBounds(c) {
		return fmt.Errorf("collider %v out of bounds", c)
	}
	w.obstacles.AddStatic(c)
	return nil
}

// AddUnit spawns a unit centred on cell. An empty id is assigned as the next
// unused U<n>.
func (w *World) AddUnit(id, name string, cell grid.Coords) (*modelpkg.Unit, error) {
	for id == "" {
		if cand := fmt.Sprintf("U%d", w.nextUnitNum.Add(1)); w.units[cand] == nil {
			id = cand
		}
	}
	if _, ok := w.units[id]; ok {
		return nil, fmt.Errorf("duplicate unit id %s", id)
	}
	if w.Blocked(cell) {
		return nil, fmt.Errorf("unit %s: cell %v is blocked", id, cell)
	}
	if name == "" {
		name = id
	}
	u := &modelpkg.Unit{
		ID:        id,
		Name:      name,
		Cell:      cell,
		Pos:       w.tiles.CellToWorld(cell),
		Speed:     w.tune.UnitSpeed,
		Inventory: w.newInventory(),
		Skills:    modelpkg.NewSkills(),
	}
	w.units[id] = u
	return u, nil
}

func (w *World) newInventory() modelpkg.Inventory {
	inv := w.tune.Inventory
	if inv.Style == tuning.InventorySlots {
		return modelpkg.NewSlotInventory(inv.Slots, inv.MaxStack)
	}
	return modelpkg.NewCapacityInventory(inv.Capacity)
}

// AddNode places a resource node. An empty id is assigned as the next unused
// N<n>.
func (w *World) AddNode(id string, kind catalogs.ResourceKind, cell grid.Coords, quantity int) (*modelpkg.ResourceNode, error) {
	if !catalogs.IsResourceKind(kind) {
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("node at %v: quantity must be positive", cell)
	}
	for id == "" {
		if cand := fmt.Sprintf("N%d", w.nextNodeNum.Add(1)); w.nodes[cand] == nil {
			id = cand
		}
	}
	if _, ok := w.nodes[id]; ok {
		return nil, fmt.Errorf("duplicate node id %s", id)
	}
	if w.Blocked(cell) {
		return nil, fmt.Errorf("node %s: cell %v is blocked", id, cell)
	}
	for _, u := range w.units {
		if u.Cell == cell {
			return nil, fmt.Errorf("node %s: cell %v is occupied by unit %s", id, cell, u.ID)
		}
	}
	n := &modelpkg.ResourceNode{ID: id, Kind: kind, Cell: cell, Quantity: quantity}
	w.nodes[id] = n
	w.obstacles.setNode(cell, id)
	return n, nil
}

func (w *World) removeNode(id string, nowTick uint64) {
	n := w.nodes[id]
	if n == nil {
		return
	}
	delete(w.nodes, id)
	w.obstacles.clearNode(n.Cell)
	w.logger.Printf("tick %d: node %s (%s) at %v depleted", nowTick, id, n.Kind, n.Cell)
}

func (w *World) placeBuilding(b *modelpkg.Building, nowTick uint64) {
	w.buildings[b.ID] = b
	w.obstacles.setBuilding(b.Cell, b.ID)
	w.logger.Printf("tick %d: %s placed %s %s at %v", nowTick, b.Owner, b.Kind, b.ID, b.Cell)
}

func (w *World) nodeAt(c grid.Coords) *modelpkg.ResourceNode {
	id, ok := w.obstacles.NodeAt(c)
	if !ok {
		return nil
	}
	return w.nodes[id]
}

func (w *World) buildingAt(c grid.Coords) *modelpkg.Building {
	id, ok := w.obstacles.BuildingAt(c)
	if !ok {
		return nil
	}
	return w.buildings[id]
}

// Unit returns the live unit record. Callers outside the world loop must not
// hold on to it while the world is running.
func (w *World) Unit(id string) *modelpkg.Unit { return w.units[id] }

func (w *World) Node(id string) *modelpkg.ResourceNode { return w.nodes[id] }

func (w *World) Building(id string) *modelpkg.Building { return w.buildings[id] }
