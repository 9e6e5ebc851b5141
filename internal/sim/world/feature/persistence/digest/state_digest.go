package digest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"tilerts.ai/internal/sim/grid"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

type StateInput struct {
	NowTick uint64

	Units     map[string]*modelpkg.Unit
	Nodes     map[string]*modelpkg.ResourceNode
	Buildings map[string]*modelpkg.Building
	Selection []string
}

// StateDigest hashes every piece of simulation state that affects future
// ticks. Equal digests at equal ticks mean a replay has not diverged.
func StateDigest(in StateInput) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, in.NowTick)
	for _, id := range in.Selection {
		h.Write([]byte(id))
	}
	digestNodes(h, &tmp, in.Nodes)
	digestBuildings(h, &tmp, in.Buildings)
	digestUnits(h, &tmp, in.Units)

	return hex.EncodeToString(h.Sum(nil))
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func digestWriteF64(h hashWriter, tmp *[8]byte, v float64) {
	digestWriteU64(h, tmp, math.Float64bits(v))
}

func digestCell(h hashWriter, tmp *[8]byte, c grid.Coords) {
	digestWriteI64(h, tmp, int64(c.X))
	digestWriteI64(h, tmp, int64(c.Y))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func digestNodes(h hashWriter, tmp *[8]byte, nodes map[string]*modelpkg.ResourceNode) {
	for _, id := range sortedKeys(nodes) {
		n := nodes[id]
		h.Write([]byte(id))
		h.Write([]byte(n.Kind))
		digestCell(h, tmp, n.Cell)
		digestWriteI64(h, tmp, int64(n.Quantity))
	}
}

func digestBuildings(h hashWriter, tmp *[8]byte, buildings map[string]*modelpkg.Building) {
	for _, id := range sortedKeys(buildings) {
		b := buildings[id]
		h.Write([]byte(id))
		h.Write([]byte(b.Kind))
		h.Write([]byte(b.Owner))
		digestCell(h, tmp, b.Cell)
		digestWriteF64(h, tmp, b.Progress)
		digestWriteF64(h, tmp, b.BuildTime)
		h.Write([]byte{BoolByte(b.Complete)})
	}
}

func digestUnits(h hashWriter, tmp *[8]byte, units map[string]*modelpkg.Unit) {
	for _, id := range sortedKeys(units) {
		u := units[id]
		h.Write([]byte(id))
		digestCell(h, tmp, u.Cell)
		digestWriteF64(h, tmp, u.Pos.X)
		digestWriteF64(h, tmp, u.Pos.Y)
		digestWriteF64(h, tmp, u.Speed)

		h.Write([]byte{BoolByte(u.Move.Destination != nil)})
		if d := u.Move.Destination; d != nil {
			digestCell(h, tmp, *d)
		}
		digestWriteU64(h, tmp, uint64(len(u.Move.Path)))
		for _, c := range u.Move.Path {
			digestCell(h, tmp, c)
		}
		h.Write([]byte{BoolByte(u.Moving != nil)})
		if m := u.Moving; m != nil {
			digestCell(h, tmp, m.ToCell)
			digestWriteF64(h, tmp, m.Progress)
		}

		if in := u.Intent; in != nil {
			h.Write([]byte("I"))
			h.Write([]byte(in.Target))
			h.Write([]byte(in.Kind))
			digestCell(h, tmp, in.Approach)
		}
		if g := u.Gather; g != nil {
			h.Write([]byte("G"))
			h.Write([]byte(g.Target))
			h.Write([]byte(g.Kind))
			digestWriteF64(h, tmp, g.Progress)
			digestWriteF64(h, tmp, g.BaseTime)
		}
		if ct := u.Construct; ct != nil {
			h.Write([]byte("C"))
			h.Write([]byte(ct.Target))
			digestCell(h, tmp, ct.Approach)
			h.Write([]byte{BoolByte(ct.Active)})
		}

		if u.Inventory != nil {
			WriteSortedCounts(h, tmp, u.Inventory.Contents())
		}
		for _, a := range modelpkg.Activities() {
			sk := u.Skills[a]
			if sk == nil {
				continue
			}
			h.Write([]byte(a))
			digestWriteF64(h, tmp, sk.Level)
			digestWriteF64(h, tmp, sk.XP)
		}
	}
}
