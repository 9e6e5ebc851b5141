package world

import (
	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/world/feature/construction"
	workruntime "tilerts.ai/internal/sim/world/feature/work/runtime"
)

type (
	HarvestRecord = workruntime.HarvestRecord
	BuildRecord   = construction.BuildRecord
)

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// IndexSink receives a per-tick summary for read-model indexing. Implementations
// must not block the world loop.
type IndexSink interface {
	RecordTick(rec TickRecord)
}

// TickLogEntry is the replayable record of one tick: the commands applied in
// inbox order plus the resulting state digest.
type TickLogEntry struct {
	Tick     uint64             `json:"tick"`
	Commands []protocol.Command `json:"commands,omitempty"`
	Events   []UnitEvent        `json:"events,omitempty"`
	Digest   string             `json:"digest"`
}

type UnitEvent struct {
	UnitID string         `json:"unit_id"`
	Event  protocol.Event `json:"event"`
}

type SkillUpRecord struct {
	Tick   uint64  `json:"tick"`
	UnitID string  `json:"unit_id"`
	Skill  string  `json:"skill"`
	Level  float64 `json:"level"`
}

type TickRecord struct {
	Tick      uint64
	Digest    string
	Units     int
	Nodes     int
	Commands  int
	Harvests  []HarvestRecord
	Builds    []BuildRecord
	SkillUps  []SkillUpRecord
	Depleted  []string
	StepMicro int64
}
