package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ResourceKind is the single tagged union for gatherable resources.
type ResourceKind string

const (
	Wood  ResourceKind = "WOOD"
	Gold  ResourceKind = "GOLD"
	Stone ResourceKind = "STONE"
)

// BuildingKind names a constructible building.
type BuildingKind string

const (
	House      BuildingKind = "HOUSE"
	Storehouse BuildingKind = "STOREHOUSE"
	Barracks   BuildingKind = "BARRACKS"
)

type Catalogs struct {
	Resources ResourceCatalog
	Buildings BuildingCatalog
}

type ResourceCatalog struct {
	ByID   map[ResourceKind]ResourceDef
	Digest string
}

type ResourceDef struct {
	ID ResourceKind `json:"id"`
	// BaseTime is the harvest work (skill-seconds) needed for one yield cycle.
	BaseTime float64 `json:"base_time"`
}

type BuildingCatalog struct {
	ByID   map[BuildingKind]BuildingDef
	Digest string
}

type BuildingDef struct {
	ID        BuildingKind `json:"id"`
	Cost      []ItemCount  `json:"cost"`
	BuildTime float64      `json:"build_time"`
}

type ItemCount struct {
	Item  ResourceKind `json:"item"`
	Count int          `json:"count"`
}

// CostMap flattens a building cost into kind -> count.
func (d BuildingDef) CostMap() map[ResourceKind]int {
	out := make(map[ResourceKind]int, len(d.Cost))
	for _, ic := range d.Cost {
		if ic.Count > 0 {
			out[ic.Item] += ic.Count
		}
	}
	return out
}

func ResourceKinds() []ResourceKind { return []ResourceKind{Wood, Gold, Stone} }

func BuildingKinds() []BuildingKind { return []BuildingKind{House, Storehouse, Barracks} }

func IsResourceKind(k ResourceKind) bool {
	switch k {
	case Wood, Gold, Stone:
		return true
	}
	return false
}

// Defaults returns the built-in catalogs used when no config directory is given.
func Defaults() *Catalogs {
	res := []ResourceDef{
		{ID: Wood, BaseTime: 2.0},
		{ID: Gold, BaseTime: 4.0},
		{ID: Stone, BaseTime: 3.0},
	}
	bld := []BuildingDef{
		{ID: House, Cost: []ItemCount{{Item: Wood, Count: 10}}, BuildTime: 5},
		{ID: Storehouse, Cost: []ItemCount{{Item: Wood, Count: 15}, {Item: Stone, Count: 5}}, BuildTime: 8},
		{ID: Barracks, Cost: []ItemCount{{Item: Wood, Count: 20}, {Item: Stone, Count: 10}, {Item: Gold, Count: 5}}, BuildTime: 12},
	}
	var c Catalogs
	resJSON, _ := json.Marshal(res)
	bldJSON, _ := json.Marshal(bld)
	_ = buildResources(resJSON, "resources", &c.Resources)
	_ = buildBuildings(bldJSON, "buildings", &c.Buildings)
	return &c
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadResources(filepath.Join(configDir, "resources.json"), &c.Resources); err != nil {
		return nil, err
	}
	if err := loadBuildings(filepath.Join(configDir, "buildings.json"), &c.Buildings); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadResources(path string, out *ResourceCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return buildResources(raw, "resources.json", out)
}

func buildResources(raw []byte, name string, out *ResourceCatalog) error {
	out.Digest = sha256Hex(raw)
	var defs []ResourceDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	out.ByID = map[ResourceKind]ResourceDef{}
	for _, d := range defs {
		if !IsResourceKind(d.ID) {
			return fmt.Errorf("%s: unknown resource kind %q", name, d.ID)
		}
		if d.BaseTime <= 0 {
			return fmt.Errorf("%s: %s: base_time must be positive", name, d.ID)
		}
		out.ByID[d.ID] = d
	}
	for _, k := range ResourceKinds() {
		if _, ok := out.ByID[k]; !ok {
			return fmt.Errorf("%s: missing %s", name, k)
		}
	}
	return nil
}

func loadBuildings(path string, out *BuildingCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return buildBuildings(raw, "buildings.json", out)
}

func buildBuildings(raw []byte, name string, out *BuildingCatalog) error {
	out.Digest = sha256Hex(raw)
	var defs []BuildingDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	out.ByID = map[BuildingKind]BuildingDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("%s: empty id", name)
		}
		if d.BuildTime <= 0 {
			return fmt.Errorf("%s: %s: build_time must be positive", name, d.ID)
		}
		for _, ic := range d.Cost {
			if !IsResourceKind(ic.Item) {
				return fmt.Errorf("%s: %s: unknown cost item %q", name, d.ID, ic.Item)
			}
		}
		out.ByID[d.ID] = d
	}
	return nil
}

// BuildingIDs returns the catalog's building ids in stable order.
func (c BuildingCatalog) BuildingIDs() []string {
	ids := make([]string, 0, len(c.ByID))
	for id := range c.ByID {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return ids
}
