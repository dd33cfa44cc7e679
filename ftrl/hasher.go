package ftrl

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/ezoic/ftrl/core/frame"
)

// hasher maps frame cells into the [0, nbins) bin space. Keys are
// name-qualified: a cell hashes over (column name, value), so the bin a
// feature lands in does not depend on column position. With interactions
// enabled, every unordered column pair contributes one extra bin hashed
// over both (name, value) pairs in canonical name-hash order.
type hasher struct {
	nbins      uint64
	names      []string
	nameHashes []uint64
	nameKeys   [][]byte // column name + zero separator, precomputed
	pairs      [][2]int // interaction pairs by column index, j < k
}

func newHasher(names []string, nbins uint64, interactions bool) *hasher {
	h := &hasher{
		nbins:      nbins,
		names:      names,
		nameHashes: make([]uint64, len(names)),
		nameKeys:   make([][]byte, len(names)),
	}
	for j, name := range names {
		h.nameHashes[j] = xxhash.Sum64String(name)
		key := make([]byte, 0, len(name)+1)
		key = append(key, name...)
		key = append(key, 0)
		h.nameKeys[j] = key
	}
	if interactions {
		for j := 0; j < len(names); j++ {
			for k := j + 1; k < len(names); k++ {
				h.pairs = append(h.pairs, [2]int{j, k})
			}
		}
	}
	return h
}

// binsPerRow is the number of bin indices row produces: one per column
// plus one per interaction pair.
func (h *hasher) binsPerRow() int {
	return len(h.names) + len(h.pairs)
}

// binner returns a reusable row hasher. Binners are not safe for
// concurrent use; each worker goroutine takes its own.
func (h *hasher) binner() *binner {
	cells := make([][]byte, len(h.names))
	for j := range cells {
		cells[j] = make([]byte, 0, 16)
	}
	return &binner{h: h, cells: cells, buf: make([]byte, 0, 64)}
}

type binner struct {
	h     *hasher
	cells [][]byte // canonical value bytes per column for the current row
	buf   []byte
}

// row hashes row i of fr into bins, reusing the bins slice. The first
// len(names) entries are the single-column bins in column order; any
// interaction bins follow.
func (b *binner) row(fr frame.Frame, i int, bins []uint64) []uint64 {
	h := b.h
	bins = bins[:0]

	for j := range h.names {
		b.cells[j] = appendValueBytes(b.cells[j][:0], fr.At(i, j))

		b.buf = append(b.buf[:0], h.nameKeys[j]...)
		b.buf = append(b.buf, b.cells[j]...)
		bins = append(bins, xxhash.Sum64(b.buf)%h.nbins)
	}

	for _, pair := range h.pairs {
		a, c := pair[0], pair[1]
		// canonical order by name hash keeps the pair key independent of
		// column positions
		if h.nameHashes[c] < h.nameHashes[a] ||
			(h.nameHashes[c] == h.nameHashes[a] && h.names[c] < h.names[a]) {
			a, c = c, a
		}
		b.buf = binary.LittleEndian.AppendUint64(b.buf[:0], h.nameHashes[a])
		b.buf = append(b.buf, b.cells[a]...)
		b.buf = binary.LittleEndian.AppendUint64(b.buf, h.nameHashes[c])
		b.buf = append(b.buf, b.cells[c]...)
		bins = append(bins, xxhash.Sum64(b.buf)%h.nbins)
	}

	return bins
}

// appendValueBytes appends the canonical byte form of a cell. Floats use
// their IEEE bit pattern, with float32 widened first so the same number
// hashes identically from either float type.
func appendValueBytes(buf []byte, v frame.Value) []byte {
	switch v.Kind {
	case frame.Bool:
		if v.B {
			return append(buf, 1)
		}
		return append(buf, 0)
	case frame.Int:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.I))
	case frame.Float32, frame.Float64:
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.F))
	case frame.String:
		return append(buf, v.S...)
	}
	return buf
}
