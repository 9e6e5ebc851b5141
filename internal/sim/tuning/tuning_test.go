package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValid(t *testing.T) {
	d := Defaults()
	if err := d.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if d.Pathing.MaxDistance != 30 {
		t.Fatalf("max distance=%v", d.Pathing.MaxDistance)
	}
	if got := d.Dt(); got != 0.05 {
		t.Fatalf("dt=%v", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "tick_rate_hz: 10\npathing:\n  heuristic: manhattan\ninventory:\n  style: slots\n  slots: 2\n  max_stack: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TickRateHz != 10 || got.Pathing.Heuristic != "manhattan" {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.Pathing.MaxDistance != 30 || got.TileSize != 32 {
		t.Fatalf("defaults lost: %+v", got)
	}
	if got.Inventory.Style != InventorySlots || got.Inventory.MaxStack != 5 {
		t.Fatalf("inventory mismatch: %+v", got.Inventory)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	_ = os.WriteFile(path, []byte("pathing:\n  heuristic: dijkstra\n"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown heuristic rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
