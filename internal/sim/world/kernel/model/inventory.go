package model

import "tilerts.ai/internal/sim/catalogs"

// Inventory is a per-unit resource store. Put returns the amount that did not
// fit; Take returns the amount actually removed.
type Inventory interface {
	Count(kind catalogs.ResourceKind) int
	Total() int
	Room(kind catalogs.ResourceKind) int
	Put(kind catalogs.ResourceKind, n int) (overflow int)
	Take(kind catalogs.ResourceKind, n int) (removed int)
	Contents() map[catalogs.ResourceKind]int
}

// CapacityInventory is an additive store bounded by total quantity.
type CapacityInventory struct {
	Capacity int
	Items    map[catalogs.ResourceKind]int
}

func NewCapacityInventory(capacity int) *CapacityInventory {
	if capacity < 0 {
		capacity = 0
	}
	return &CapacityInventory{Capacity: capacity, Items: map[catalogs.ResourceKind]int{}}
}

func (c *CapacityInventory) Count(kind catalogs.ResourceKind) int { return c.Items[kind] }

func (c *CapacityInventory) Total() int {
	n := 0
	for _, v := range c.Items {
		n += v
	}
	return n
}

func (c *CapacityInventory) Room(catalogs.ResourceKind) int {
	if r := c.Capacity - c.Total(); r > 0 {
		return r
	}
	return 0
}

func (c *CapacityInventory) Put(kind catalogs.ResourceKind, n int) int {
	if n <= 0 {
		return 0
	}
	added := min(n, c.Room(kind))
	if added > 0 {
		if c.Items == nil {
			c.Items = map[catalogs.ResourceKind]int{}
		}
		c.Items[kind] += added
	}
	return n - added
}

func (c *CapacityInventory) Take(kind catalogs.ResourceKind, n int) int {
	if n <= 0 {
		return 0
	}
	removed := min(n, c.Items[kind])
	if removed <= 0 {
		return 0
	}
	c.Items[kind] -= removed
	if c.Items[kind] <= 0 {
		delete(c.Items, kind)
	}
	return removed
}

func (c *CapacityInventory) Contents() map[catalogs.ResourceKind]int {
	out := make(map[catalogs.ResourceKind]int, len(c.Items))
	for k, v := range c.Items {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Slot is one stack in a SlotInventory. An empty slot has Qty 0 and no kind.
type Slot struct {
	Kind catalogs.ResourceKind
	Qty  int
}

// SlotInventory has a fixed number of slots, each holding up to MaxStack of a
// single kind.
type SlotInventory struct {
	MaxStack int
	Slots    []Slot
}

func NewSlotInventory(slots, maxStack int) *SlotInventory {
	if slots < 0 {
		slots = 0
	}
	if maxStack < 0 {
		maxStack = 0
	}
	return &SlotInventory{MaxStack: maxStack, Slots: make([]Slot, slots)}
}

func (s *SlotInventory) Count(kind catalogs.ResourceKind) int {
	n := 0
	for _, sl := range s.Slots {
		if sl.Kind == kind {
			n += sl.Qty
		}
	}
	return n
}

func (s *SlotInventory) Total() int {
	n := 0
	for _, sl := range s.Slots {
		n += sl.Qty
	}
	return n
}

func (s *SlotInventory) Room(kind catalogs.ResourceKind) int {
	n := 0
	for _, sl := range s.Slots {
		switch {
		case sl.Qty == 0:
			n += s.MaxStack
		case sl.Kind == kind && sl.Qty < s.MaxStack:
			n += s.MaxStack - sl.Qty
		}
	}
	return n
}

func (s *SlotInventory) Put(kind catalogs.ResourceKind, n int) int {
	if n <= 0 {
		return 0
	}
	for i := range s.Slots {
		if n == 0 {
			return 0
		}
		sl := &s.Slots[i]
		if sl.Qty > 0 && sl.Kind == kind && sl.Qty < s.MaxStack {
			add := min(n, s.MaxStack-sl.Qty)
			sl.Qty += add
			n -= add
		}
	}
	for i := range s.Slots {
		if n == 0 {
			return 0
		}
		sl := &s.Slots[i]
		if sl.Qty == 0 && s.MaxStack > 0 {
			add := min(n, s.MaxStack)
			sl.Kind = kind
			sl.Qty = add
			n -= add
		}
	}
	return n
}

// Take drains the last matching slots first so earlier stacks stay full.
func (s *SlotInventory) Take(kind catalogs.ResourceKind, n int) int {
	if n <= 0 {
		return 0
	}
	removed := 0
	for i := len(s.Slots) - 1; i >= 0 && removed < n; i-- {
		sl := &s.Slots[i]
		if sl.Qty == 0 || sl.Kind != kind {
			continue
		}
		take := min(n-removed, sl.Qty)
		sl.Qty -= take
		removed += take
		if sl.Qty == 0 {
			*sl = Slot{}
		}
	}
	return removed
}

func (s *SlotInventory) Contents() map[catalogs.ResourceKind]int {
	out := map[catalogs.ResourceKind]int{}
	for _, sl := range s.Slots {
		if sl.Qty > 0 {
			out[sl.Kind] += sl.Qty
		}
	}
	return out
}
