package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int     `yaml:"tick_rate_hz"`
	TileSize   float64 `yaml:"tile_size"`
	// UnitSpeed is in cells per second.
	UnitSpeed float64 `yaml:"unit_speed"`

	Pathing   Pathing   `yaml:"pathing"`
	Gathering Gathering `yaml:"gathering"`
	Inventory Inventory `yaml:"inventory"`
}

type Pathing struct {
	MaxDistance  float64 `yaml:"max_distance"`
	SearchMargin int     `yaml:"search_margin"`
	Heuristic    string  `yaml:"heuristic"`
}

type Gathering struct {
	XPPerSecond    float64 `yaml:"xp_per_second"`
	SkillThreshold float64 `yaml:"skill_threshold"`
	SkillStep      float64 `yaml:"skill_step"`
	YieldDivisor   float64 `yaml:"yield_divisor"`
}

type Inventory struct {
	Style    string `yaml:"style"`
	Capacity int    `yaml:"capacity"`
	Slots    int    `yaml:"slots"`
	MaxStack int    `yaml:"max_stack"`
}

const (
	InventoryCapacity = "capacity"
	InventorySlots    = "slots"
)

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      20,
		TileSize:        32,
		UnitSpeed:       4,
		Pathing: Pathing{
			MaxDistance:  30,
			SearchMargin: 10,
			Heuristic:    "octile",
		},
		Gathering: Gathering{
			XPPerSecond:    0.2,
			SkillThreshold: 100,
			SkillStep:      0.1,
			YieldDivisor:   3,
		},
		Inventory: Inventory{
			Style:    InventoryCapacity,
			Capacity: 50,
			Slots:    4,
			MaxStack: 20,
		},
	}
}

// Load reads tuning.yaml on top of Defaults so a partial file only overrides
// the keys it names.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive")
	}
	if t.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive")
	}
	if t.UnitSpeed <= 0 {
		return fmt.Errorf("unit_speed must be positive")
	}
	if t.Pathing.MaxDistance <= 0 {
		return fmt.Errorf("pathing.max_distance must be positive")
	}
	if t.Pathing.SearchMargin < 0 {
		return fmt.Errorf("pathing.search_margin must not be negative")
	}
	switch t.Pathing.Heuristic {
	case "", "octile", "manhattan":
	default:
		return fmt.Errorf("pathing.heuristic: unknown %q", t.Pathing.Heuristic)
	}
	if t.Gathering.SkillThreshold <= 0 || t.Gathering.SkillStep <= 0 || t.Gathering.YieldDivisor <= 0 {
		return fmt.Errorf("gathering: threshold, step and yield_divisor must be positive")
	}
	if t.Gathering.XPPerSecond < 0 {
		return fmt.Errorf("gathering.xp_per_second must not be negative")
	}
	switch t.Inventory.Style {
	case InventoryCapacity:
		if t.Inventory.Capacity < 0 {
			return fmt.Errorf("inventory.capacity must not be negative")
		}
	case InventorySlots:
		if t.Inventory.Slots <= 0 || t.Inventory.MaxStack <= 0 {
			return fmt.Errorf("inventory: slots and max_stack must be positive")
		}
	default:
		return fmt.Errorf("inventory.style: unknown %q", t.Inventory.Style)
	}
	return nil
}

// Dt is the fixed simulation step in seconds.
func (t Tuning) Dt() float64 { return 1 / float64(t.TickRateHz) }
