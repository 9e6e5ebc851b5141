package world

import (
	"sort"
	"time"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/world/feature/construction"
	movementruntime "tilerts.ai/internal/sim/world/feature/movement/runtime"
	workruntime "tilerts.ai/internal/sim/world/feature/work/runtime"
)

// step runs one tick. Phase order is fixed: commands, path planning, path
// execution, gather intents, gathering, construction, then telemetry.
func (w *World) step(cmds []protocol.Command) string {
	stepStart := time.Now()
	nowTick := w.tick.Load()
	dt := w.dt()

	// Apply commands in inbox order.
	recorded := make([]protocol.Command, 0, len(cmds))
	for _, cmd := range cmds {
		if w.applyCommand(cmd, nowTick) {
			recorded = append(recorded, cmd)
		}
	}

	moveEnv := newMovementEnv(w)
	movementruntime.RunPlanningSystem(moveEnv, nowTick)
	movementruntime.RunMovementSystem(moveEnv, dt, nowTick)

	execEnv := newWorkExecEnv(w)
	nodesBefore := make(map[string]bool, len(w.nodes))
	for id := range w.nodes {
		nodesBefore[id] = true
	}
	workruntime.TickGatherIntent(execEnv, nowTick)
	harvests := workruntime.TickGathering(execEnv, dt, nowTick)
	builds := construction.TickConstruction(execEnv, dt, nowTick)

	var depleted []string
	for id := range nodesBefore {
		if w.nodes[id] == nil {
			depleted = append(depleted, id)
		}
	}
	sort.Strings(depleted)

	events := w.collectEvents()
	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		if err := w.tickLogger.WriteTick(TickLogEntry{Tick: nowTick, Commands: recorded, Events: events, Digest: digest}); err != nil {
			w.logger.Printf("tick %d: tick log: %v", nowTick, err)
		}
	}

	stepMicro := time.Since(stepStart).Microseconds()
	if w.indexSink != nil {
		w.indexSink.RecordTick(TickRecord{
			Tick:      nowTick,
			Digest:    digest,
			Units:     len(w.units),
			Nodes:     len(w.nodes),
			Commands:  len(recorded),
			Harvests:  harvests,
			Builds:    builds,
			SkillUps:  skillUpsFrom(nowTick, events),
			Depleted:  depleted,
			StepMicro: stepMicro,
		})
	}

	nextTick := w.tick.Add(1)
	w.metrics.Store(WorldMetrics{
		Tick:      nextTick,
		Units:     len(w.units),
		Nodes:     len(w.nodes),
		Buildings: len(w.buildings),
		Colliders: w.obstacles.StaticCount(),
		Inbox:     len(w.inbox),
		StepMS:    float64(stepMicro) / 1000.0,
	})
	return digest
}

// collectEvents drains unit events in unit-ID order.
func (w *World) collectEvents() []UnitEvent {
	var out []UnitEvent
	for _, u := range w.sortedUnits() {
		for _, e := range u.TakeEvents() {
			out = append(out, UnitEvent{UnitID: u.ID, Event: e})
		}
	}
	w.lastEvents = out
	return out
}

// LastEvents returns the events emitted during the most recent tick.
func (w *World) LastEvents() []UnitEvent {
	return append([]UnitEvent(nil), w.lastEvents...)
}

func skillUpsFrom(nowTick uint64, events []UnitEvent) []SkillUpRecord {
	var out []SkillUpRecord
	for _, ue := range events {
		if ue.Event["type"] != protocol.EvSkillUp {
			continue
		}
		skill, _ := ue.Event["skill"].(string)
		level, _ := ue.Event["level"].(float64)
		out = append(out, SkillUpRecord{Tick: nowTick, UnitID: ue.UnitID, Skill: skill, Level: level})
	}
	return out
}
