package world

import "tilerts.ai/internal/sim/world/feature/persistence/digest"

func (w *World) stateDigest(nowTick uint64) string {
	return digest.StateDigest(digest.StateInput{
		NowTick:   nowTick,
		Units:     w.units,
		Nodes:     w.nodes,
		Buildings: w.buildings,
		Selection: w.selection,
	})
}
