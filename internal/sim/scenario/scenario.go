// Package scenario loads level files: map bounds, static colliders, units,
// resource nodes and an optional command script.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/world"
	"tilerts.ai/internal/sim/world/feature/economy/inventory"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

//go:embed scenario.schema.json
var schemaJSON []byte

const schemaURL = "scenario.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

type Scenario struct {
	World     WorldSpec   `json:"world"`
	Colliders [][2]int    `json:"colliders,omitempty"`
	Units     []UnitSpec  `json:"units,omitempty"`
	Nodes     []NodeSpec  `json:"nodes,omitempty"`
	Script    []ScriptCmd `json:"script,omitempty"`
}

type WorldSpec struct {
	ID     string `json:"id"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type UnitSpec struct {
	ID        string             `json:"id,omitempty"`
	Name      string             `json:"name,omitempty"`
	Cell      [2]int             `json:"cell"`
	Skills    map[string]float64 `json:"skills,omitempty"`
	Inventory map[string]int     `json:"inventory,omitempty"`
}

type NodeSpec struct {
	ID       string `json:"id,omitempty"`
	Kind     string `json:"kind"`
	Cell     [2]int `json:"cell"`
	Quantity int    `json:"quantity"`
}

// ScriptCmd queues Command for the tick it names.
type ScriptCmd struct {
	Tick    uint64           `json:"tick"`
	Command protocol.Command `json:"command"`
}

func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates raw against the scenario schema before decoding it.
func Parse(raw []byte) (*Scenario, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("scenario json: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("scenario schema: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("scenario json: %w", err)
	}
	return &s, nil
}

func (s *Scenario) WorldConfig() world.WorldConfig {
	return world.WorldConfig{ID: s.World.ID, Width: s.World.Width, Height: s.World.Height}
}

// Apply spawns colliders, nodes and units into w in that order. Kind and
// activity names are resolved here, so typos fail with a suggestion.
func (s *Scenario) Apply(w *world.World) error {
	for _, c := range s.Colliders {
		if err := w.AddCollider(cellOf(c)); err != nil {
			return err
		}
	}
	for i, n := range s.Nodes {
		kind, err := catalogs.ParseResourceKind(n.Kind)
		if err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}
		if _, err := w.AddNode(n.ID, kind, cellOf(n.Cell), n.Quantity); err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}
	}
	for i, us := range s.Units {
		u, err := w.AddUnit(us.ID, us.Name, cellOf(us.Cell))
		if err != nil {
			return fmt.Errorf("units[%d]: %w", i, err)
		}
		if err := applySkills(u, us.Skills); err != nil {
			return fmt.Errorf("units[%d]: %w", i, err)
		}
		if err := applyInventory(u, us.Inventory); err != nil {
			return fmt.Errorf("units[%d]: %w", i, err)
		}
	}
	return nil
}

func applySkills(u *modelpkg.Unit, levels map[string]float64) error {
	known := map[modelpkg.Activity]bool{}
	for _, a := range modelpkg.Activities() {
		known[a] = true
	}
	for name, level := range levels {
		a := modelpkg.Activity(name)
		if !known[a] {
			return fmt.Errorf("unknown skill %q", name)
		}
		u.Skills.Get(a).Level = level
	}
	return nil
}

func applyInventory(u *modelpkg.Unit, contents map[string]int) error {
	names := make([]string, 0, len(contents))
	for name := range contents {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		kind, err := catalogs.ParseResourceKind(name)
		if err != nil {
			return err
		}
		want := contents[name]
		if got := inventory.Deposit(u.Inventory, kind, want); got < want {
			return fmt.Errorf("inventory: only %d of %d %s fit", got, want, kind)
		}
	}
	return nil
}

// CommandsAt returns the scripted commands for tick in file order.
func (s *Scenario) CommandsAt(tick uint64) []protocol.Command {
	var out []protocol.Command
	for _, sc := range s.Script {
		if sc.Tick == tick {
			out = append(out, sc.Command)
		}
	}
	return out
}

// LastScriptTick reports the highest tick with a scripted command.
func (s *Scenario) LastScriptTick() uint64 {
	var last uint64
	for _, sc := range s.Script {
		if sc.Tick > last {
			last = sc.Tick
		}
	}
	return last
}

func cellOf(c [2]int) grid.Coords { return grid.Coords{X: c[0], Y: c[1]} }
