package world

import (
	"sort"

	"tilerts.ai/internal/protocol"
	"tilerts.ai/internal/sim/grid"
	"tilerts.ai/internal/sim/world/feature/construction"
	movementruntime "tilerts.ai/internal/sim/world/feature/movement/runtime"
	workruntime "tilerts.ai/internal/sim/world/feature/work/runtime"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type commandHandler func(w *World, u *modelpkg.Unit, cmd protocol.Command, nowTick uint64)

var commandDispatch = map[string]commandHandler{
	protocol.CmdMove:   handleMove,
	protocol.CmdGather: handleGather,
	protocol.CmdBuild:  handleBuild,
	protocol.CmdStop:   handleStop,
}

func commandFail(nowTick uint64, cmd protocol.Command, code, message string) protocol.Event {
	return protocol.Event{"t": nowTick, "type": protocol.EvCommandFail, "command": cmd.Type, "code": code, "message": message}
}

// applyCommand resolves the target units and runs the handler for each in
// unit-ID order. It reports whether the command changed anything worth
// recording for replay.
func (w *World) applyCommand(cmd protocol.Command, nowTick uint64) bool {
	if cmd.Type == protocol.CmdSelect {
		w.handleSelect(cmd)
		return true
	}
	h, ok := commandDispatch[cmd.Type]
	if !ok {
		w.logger.Printf("tick %d: unknown command type %q", nowTick, cmd.Type)
		return false
	}
	units := w.commandTargets(cmd)
	for _, u := range units {
		h(w, u, cmd, nowTick)
	}
	return len(units) > 0
}

func (w *World) commandTargets(cmd protocol.Command) []*modelpkg.Unit {
	ids := cmd.Units
	if len(ids) == 0 {
		ids = w.selection
	}
	seen := map[string]bool{}
	out := make([]*modelpkg.Unit, 0, len(ids))
	for _, id := range ids {
		u := w.units[id]
		if u == nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// handleSelect replaces the selection, or extends it when Additive is set.
// Unknown unit IDs are ignored.
func (w *World) handleSelect(cmd protocol.Command) {
	set := map[string]bool{}
	if cmd.Additive {
		for _, id := range w.selection {
			set[id] = true
		}
	}
	for _, id := range cmd.Units {
		if w.units[id] != nil {
			set[id] = true
		}
	}
	sel := make([]string, 0, len(set))
	for id := range set {
		sel = append(sel, id)
	}
	sort.Strings(sel)
	w.selection = sel
}

// Selection returns the currently selected unit IDs in sorted order.
func (w *World) Selection() []string {
	return append([]string(nil), w.selection...)
}

func (w *World) commandCell(cmd protocol.Command) (grid.Coords, bool) {
	if cmd.Pos == nil {
		return grid.Coords{}, false
	}
	return w.tiles.WorldToCell(grid.Vec2{X: cmd.Pos[0], Y: cmd.Pos[1]}), true
}

func handleMove(w *World, u *modelpkg.Unit, cmd protocol.Command, nowTick uint64) {
	cell, ok := w.commandCell(cmd)
	if !ok {
		u.AddEvent(commandFail(nowTick, cmd, protocol.ErrBadRequest, "missing pos"))
		return
	}
	if !w.inBounds(cell) {
		u.AddEvent(commandFail(nowTick, cmd, protocol.ErrInvalidTarget, "destination out of bounds"))
		return
	}
	movementruntime.HandleMoveCommand(u, cell)
}

// handleGather accepts either a node id or a world position on a node.
func handleGather(w *World, u *modelpkg.Unit, cmd protocol.Command, nowTick uint64) {
	nodeID := cmd.NodeID
	if nodeID == "" {
		cell, ok := w.commandCell(cmd)
		if !ok {
			u.AddEvent(commandFail(nowTick, cmd, protocol.ErrBadRequest, "missing node_id or pos"))
			return
		}
		n := w.nodeAt(cell)
		if n == nil {
			u.AddEvent(commandFail(nowTick, cmd, protocol.ErrInvalidTarget, "no resource at position"))
			return
		}
		nodeID = n.ID
	}
	workruntime.HandleGatherCommand(newWorkRequestEnv(w), u, nodeID, nowTick)
}

func handleBuild(w *World, u *modelpkg.Unit, cmd protocol.Command, nowTick uint64) {
	kind, err := w.catalogs.Buildings.Parse(cmd.Building)
	if err != nil {
		u.AddEvent(commandFail(nowTick, cmd, protocol.ErrBadRequest, err.Error()))
		return
	}
	cell, ok := w.commandCell(cmd)
	if !ok {
		u.AddEvent(commandFail(nowTick, cmd, protocol.ErrBadRequest, "missing pos"))
		return
	}
	if !w.inBounds(cell) {
		u.AddEvent(commandFail(nowTick, cmd, protocol.ErrInvalidTarget, "site out of bounds"))
		return
	}
	construction.HandleBuildCommand(newWorkRequestEnv(w), u, kind, cell, nowTick)
}

func handleStop(_ *World, u *modelpkg.Unit, _ protocol.Command, _ uint64) {
	movementruntime.HandleStopCommand(u)
}
