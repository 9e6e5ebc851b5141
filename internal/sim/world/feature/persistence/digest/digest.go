package digest

import (
	"encoding/binary"
	"sort"
)

type Writer interface {
	Write(p []byte) (n int, err error)
}

func BoolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// WriteSortedCounts emits a key-sorted encoding of m, skipping zero counts so
// that an emptied entry hashes the same as a missing one.
func WriteSortedCounts[K ~string](w Writer, tmp *[8]byte, m map[K]int) {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v != 0 {
			keys = append(keys, string(k))
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.Write([]byte(k))
		binary.LittleEndian.PutUint64(tmp[:], uint64(m[K(k)]))
		w.Write(tmp[:])
	}
}
