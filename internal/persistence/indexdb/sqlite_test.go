package indexdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/tuning"
	"tilerts.ai/internal/sim/world"
)

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.RecordTick(world.TickRecord{Tick: 1})
	s.RecordTick(world.TickRecord{Tick: 2})
	s.RecordTick(world.TickRecord{Tick: 3})

	st := s.Stats()
	if st.DropTickTotal != 2 {
		t.Fatalf("DropTickTotal=%d want=2", st.DropTickTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_RecordsWorldTicks(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index", "world.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = idx.Close() }()

	cats := catalogs.Defaults()
	tune := tuning.Defaults()
	if err := idx.UpsertConfig(cats, tune); err != nil {
		t.Fatalf("upsert config: %v", err)
	}

	w, err := world.New(world.WorldConfig{ID: "idx"}, cats, tune, nil)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	w.SetIndexSink(idx)
	u, _ := w.AddUnit("U1", "", grid.Coords{})
	u.Skills.Get("WOODCUTTING").Level = 6
	node, err := w.AddNode("", catalogs.Wood, grid.Coords{X: 1}, 7)
	if err != nil {
		t.Fatalf("node: %v", err)
	}

	w.StepOnce([]protocol.Command{{Type: protocol.CmdGather, Units: []string{"U1"}, NodeID: node.ID}})
	ticks := 1
	for w.Node(node.ID) != nil && ticks < 500 {
		w.StepOnce(nil)
		ticks++
	}
	if w.Node(node.ID) != nil {
		t.Fatalf("node not depleted after %d ticks", ticks)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := idx.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	n, err := idx.TickCount(ctx)
	if err != nil {
		t.Fatalf("tick count: %v", err)
	}
	if n != ticks {
		t.Fatalf("ticks=%d want %d", n, ticks)
	}
	totals, err := idx.HarvestTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals["U1"][catalogs.Wood] != 7 {
		t.Fatalf("totals=%v", totals)
	}

	var depletedTick int64
	if err := idx.db.QueryRowContext(ctx, `SELECT tick FROM depletions WHERE node_id=?`, node.ID).Scan(&depletedTick); err != nil {
		t.Fatalf("depletion row: %v", err)
	}
	if uint64(depletedTick) != w.CurrentTick()-1 {
		t.Fatalf("depleted at %d, last tick %d", depletedTick, w.CurrentTick()-1)
	}
	if st := idx.Stats(); st.DropTickTotal != 0 {
		t.Fatalf("unexpected drops: %+v", st)
	}
}

func TestSQLiteIndex_ClosedIgnoresRecords(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "x.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	idx.RecordTick(world.TickRecord{Tick: 1})
	if err := idx.Flush(context.Background()); err != nil {
		t.Fatalf("flush after close: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
