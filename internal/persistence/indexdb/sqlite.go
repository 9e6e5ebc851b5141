package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"tilerts.ai/internal/sim/catalogs"
	"tilerts.ai/internal/sim/tuning"
	"tilerts.ai/internal/sim/world"
)

// SQLiteIndex is a queryable read model of the tick stream. It is fed from the
// world loop through a buffered channel and written by one goroutine; when the
// writer falls behind, records are dropped and counted.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTick  atomic.Uint64
	dropFlush atomic.Uint64
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqFlush
)

type req struct {
	kind reqKind

	tick world.TickRecord
	done chan struct{}
}

type Stats struct {
	QueueDepth     int    `json:"queue_depth"`
	QueueCapacity  int    `json:"queue_capacity"`
	DropTickTotal  uint64 `json:"drop_tick_total"`
	DropFlushTotal uint64 `json:"drop_flush_total"`
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			tick INTEGER PRIMARY KEY,
			digest TEXT NOT NULL,
			units INTEGER NOT NULL,
			nodes INTEGER NOT NULL,
			commands INTEGER NOT NULL,
			step_us INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS harvests (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			unit_id TEXT NOT NULL,
			node_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			amount INTEGER NOT NULL,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_harvests_unit_tick ON harvests(unit_id, tick);`,
		`CREATE TABLE IF NOT EXISTS skillups (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			unit_id TEXT NOT NULL,
			skill TEXT NOT NULL,
			level REAL NOT NULL,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS builds (
			tick INTEGER NOT NULL,
			building_id TEXT NOT NULL,
			unit_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			PRIMARY KEY (building_id)
		);`,
		`CREATE TABLE IF NOT EXISTS depletions (
			tick INTEGER NOT NULL,
			node_id TEXT NOT NULL,
			PRIMARY KEY (node_id)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordTick implements world.IndexSink. It never blocks.
func (s *SQLiteIndex) RecordTick(rec world.TickRecord) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqTick, tick: rec}:
	default:
		// Drop if the indexer falls behind; JSONL logs remain the source of truth.
		s.dropTick.Add(1)
	}
}

// Flush waits until everything queued before the call is committed.
func (s *SQLiteIndex) Flush(ctx context.Context) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	done := make(chan struct{})
	select {
	case s.ch <- req{kind: reqFlush, done: done}:
	case <-ctx.Done():
		s.dropFlush.Add(1)
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropTickTotal:  s.dropTick.Load(),
		DropFlushTotal: s.dropFlush.Load(),
	}
}

// UpsertConfig stores the catalogs and tuning a run was started with.
func (s *SQLiteIndex) UpsertConfig(cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil || cats == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if b, _ := json.Marshal(cats.Resources.ByID); len(b) > 0 {
		rows = append(rows, kv{name: "resources", digest: cats.Resources.Digest, json: b})
	}
	if b, _ := json.Marshal(cats.Buildings.ByID); len(b) > 0 {
		rows = append(rows, kv{name: "buildings", digest: cats.Buildings.Digest, json: b})
	}
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// HarvestTotals sums committed harvests per unit and resource kind.
func (s *SQLiteIndex) HarvestTotals(ctx context.Context) (map[string]map[catalogs.ResourceKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT unit_id, kind, SUM(amount) FROM harvests GROUP BY unit_id, kind ORDER BY unit_id, kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]map[catalogs.ResourceKind]int{}
	for rows.Next() {
		var (
			unit, kind string
			total      int
		)
		if err := rows.Scan(&unit, &kind, &total); err != nil {
			return nil, err
		}
		if out[unit] == nil {
			out[unit] = map[catalogs.ResourceKind]int{}
		}
		out[unit][catalogs.ResourceKind(kind)] = total
	}
	return out, rows.Err()
}

// TickCount returns the number of committed tick rows.
func (s *SQLiteIndex) TickCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ticks`).Scan(&n)
	return n, err
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(tick,digest,units,nodes,commands,step_us) VALUES(?,?,?,?,?,?)`)
	insertHarvest, _ := s.db.Prepare(`INSERT OR REPLACE INTO harvests(tick,seq,unit_id,node_id,kind,amount) VALUES(?,?,?,?,?,?)`)
	insertSkillUp, _ := s.db.Prepare(`INSERT OR REPLACE INTO skillups(tick,seq,unit_id,skill,level) VALUES(?,?,?,?,?)`)
	insertBuild, _ := s.db.Prepare(`INSERT OR REPLACE INTO builds(tick,building_id,unit_id,kind) VALUES(?,?,?,?)`)
	insertDepletion, _ := s.db.Prepare(`INSERT OR REPLACE INTO depletions(tick,node_id) VALUES(?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertTick, insertHarvest, insertSkillUp, insertBuild, insertDepletion} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) bool {
		if st == nil || tx == nil {
			return false
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return false
		}
		opCount++
		return true
	}

	for r := range s.ch {
		if r.kind == reqFlush {
			commit()
			close(r.done)
			continue
		}
		begin()
		if tx == nil {
			continue
		}
		rec := r.tick
		t := int64(rec.Tick)
		if !exec(insertTick, t, rec.Digest, rec.Units, rec.Nodes, rec.Commands, rec.StepMicro) {
			continue
		}
		for i, h := range rec.Harvests {
			if !exec(insertHarvest, t, i, h.UnitID, h.NodeID, string(h.Kind), h.Amount) {
				break
			}
		}
		for i, su := range rec.SkillUps {
			if !exec(insertSkillUp, t, i, su.UnitID, su.Skill, su.Level) {
				break
			}
		}
		for _, b := range rec.Builds {
			if !exec(insertBuild, t, b.BuildingID, b.UnitID, string(b.Kind)) {
				break
			}
		}
		for _, id := range rec.Depleted {
			if !exec(insertDepletion, t, id) {
				break
			}
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}
