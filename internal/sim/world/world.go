package world

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tuning"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
	logicmovement "tilerts.ai/internal/sim/world/logic/movement"
)

type WorldConfig struct {
	ID string
	// Width and Height bound the map in cells when both are positive; cells
	// outside are treated as colliders.
	Width  int
	Height int
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs
	tune     tuning.Tuning
	tiles    logicmovement.Tiles
	logger   *log.Logger

	tick atomic.Uint64

	units     map[string]*modelpkg.Unit
	nodes     map[string]*modelpkg.ResourceNode
	buildings map[string]*modelpkg.Building
	obstacles *ObstacleIndex
	selection []string

	inbox   chan protocol.Command
	viewReq chan viewRequest
	stop    chan struct{}

	nextUnitNum     atomic.Uint64
	nextNodeNum     atomic.Uint64
	nextBuildingNum atomic.Uint64
	nextTaskNum     atomic.Uint64

	// Optional sinks (may be nil). Implemented in internal/persistence/*.
	tickLogger TickLogger
	indexSink  IndexSink

	lastEvents []UnitEvent
	metrics    atomic.Value
}

// New builds an empty world. A nil logger discards log output.
func New(cfg WorldConfig, cats *catalogs.Catalogs, tune tuning.Tuning, logger *log.Logger) (*World, error) {
	if cats == nil {
		cats = catalogs.Defaults()
	}
	if err := tune.Validate(); err != nil {
		return nil, fmt.Errorf("world %s: %w", cfg.ID, err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &World{
		cfg:       cfg,
		catalogs:  cats,
		tune:      tune,
		tiles:     logicmovement.Tiles{Size: tune.TileSize},
		logger:    logger,
		units:     map[string]*modelpkg.Unit{},
		nodes:     map[string]*modelpkg.ResourceNode{},
		buildings: map[string]*modelpkg.Building{},
		obstacles: NewObstacleIndex(),
		inbox:     make(chan protocol.Command, 1024),
		viewReq:   make(chan viewRequest, 16),
		stop:      make(chan struct{}),
	}
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }
func (w *World) SetIndexSink(s IndexSink)   { w.indexSink = s }

func (w *World) Inbox() chan<- protocol.Command { return w.inbox }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Tiles() logicmovement.Tiles { return w.tiles }

func (w *World) Tuning() tuning.Tuning { return w.tune }

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.tune.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []protocol.Command
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.viewReq:
			w.handleViewRequest(req)
		case cmd := <-w.inbox:
			pending = append(pending, cmd)
		case <-ticker.C:
			w.step(pending)
			pending = pending[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by a single tick using the same ordering
// semantics as Run. It is intended for deterministic replays and tests.
func (w *World) StepOnce(cmds []protocol.Command) (tick uint64, digest string) {
	tick = w.tick.Load()
	digest = w.step(cmds)
	return tick, digest
}

func (w *World) sortedUnits() []*modelpkg.Unit {
	ids := make([]string, 0, len(w.units))
	for id := range w.units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*modelpkg.Unit, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.units[id])
	}
	return out
}

func (w *World) newTaskID() string {
	n := w.nextTaskNum.Add(1)
	return fmt.Sprintf("T%06d", n)
}

func (w *World) newBuildingID() string {
	n := w.nextBuildingNum.Add(1)
	return fmt.Sprintf("B%d", n)
}

func (w *World) inBounds(c grid.Coords) bool {
	if w.cfg.Width <= 0 || w.cfg.Height <= 0 {
		return true
	}
	return c.X >= 0 && c.Y >= 0 && c.X < w.cfg.Width && c.Y < w.cfg.Height
}

// Blocked reports whether c is a collider for planning and placement.
func (w *World) Blocked(c grid.Coords) bool {
	return !w.inBounds(c) || w.obstacles.Blocked(c)
}

func (w *World) dt() float64 { return w.tune.Dt() }
