package model

import (
	"testing"

	"tilerts.ai/internal/sim/catalogs"
)

func TestCapacityInventoryBoundsTotal(t *testing.T) {
	inv := NewCapacityInventory(5)
	if over := inv.Put(catalogs.Wood, 3); over != 0 {
		t.Fatalf("overflow=%d", over)
	}
	if over := inv.Put(catalogs.Gold, 4); over != 2 {
		t.Fatalf("overflow=%d want 2", over)
	}
	if inv.Total() != 5 || inv.Room(catalogs.Stone) != 0 {
		t.Fatalf("total=%d room=%d", inv.Total(), inv.Room(catalogs.Stone))
	}
	if got := inv.Take(catalogs.Gold, 10); got != 2 {
		t.Fatalf("take=%d want 2", got)
	}
	if _, ok := inv.Items[catalogs.Gold]; ok {
		t.Fatalf("empty kind should be removed: %v", inv.Items)
	}
}

func TestSlotInventoryStacksBeforeOpeningSlots(t *testing.T) {
	inv := NewSlotInventory(3, 10)
	inv.Put(catalogs.Wood, 4)
	inv.Put(catalogs.Stone, 10)
	inv.Put(catalogs.Wood, 8)

	want := []Slot{{catalogs.Wood, 10}, {catalogs.Stone, 10}, {catalogs.Wood, 2}}
	for i, sl := range inv.Slots {
		if sl != want[i] {
			t.Fatalf("slot %d = %+v want %+v", i, sl, want[i])
		}
	}
	if r := inv.Room(catalogs.Wood); r != 8 {
		t.Fatalf("wood room=%d want 8", r)
	}
	if r := inv.Room(catalogs.Gold); r != 0 {
		t.Fatalf("gold room=%d want 0", r)
	}
	if over := inv.Put(catalogs.Gold, 1); over != 1 {
		t.Fatalf("gold should not fit, overflow=%d", over)
	}
}

func TestSlotInventoryTakeFreesTrailingSlot(t *testing.T) {
	inv := NewSlotInventory(2, 5)
	inv.Put(catalogs.Gold, 7)
	if got := inv.Take(catalogs.Gold, 3); got != 3 {
		t.Fatalf("take=%d", got)
	}
	if inv.Slots[0] != (Slot{catalogs.Gold, 4}) || inv.Slots[1] != (Slot{}) {
		t.Fatalf("slots=%+v", inv.Slots)
	}
	if r := inv.Room(catalogs.Stone); r != 5 {
		t.Fatalf("freed slot should accept any kind, room=%d", r)
	}
}

func TestSkillsStartAtLevelOne(t *testing.T) {
	s := NewSkills()
	for _, a := range Activities() {
		if s[a].Level != 1 || s[a].XP != 0 {
			t.Fatalf("%s = %+v", a, *s[a])
		}
	}
	empty := Skills{}
	if got := empty.Get(Mining); got.Level != 1 {
		t.Fatalf("Get on missing skill: %+v", *got)
	}
}
