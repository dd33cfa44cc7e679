package ftrl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/ftrl/core/frame"
)

func mustTable(t *testing.T, names []string, cols []frame.Column) *frame.Table {
	t.Helper()
	tbl, err := frame.NewTable(names, cols)
	require.NoError(t, err)
	return tbl
}

func TestHasherStable(t *testing.T) {
	tbl := mustTable(t,
		[]string{"age", "city"},
		[]frame.Column{
			frame.Ints([]int64{30, 41}),
			frame.Strings([]string{"bergen", "oslo"}),
		},
	)

	h := newHasher([]string{"age", "city"}, 1<<16, false)
	first := h.binner().row(tbl, 0, nil)
	second := h.binner().row(tbl, 0, nil)
	assert.Equal(t, first, second)

	other := h.binner().row(tbl, 1, nil)
	assert.NotEqual(t, first, other)
}

func TestHasherColumnOrderIndependent(t *testing.T) {
	ab := mustTable(t,
		[]string{"a", "b"},
		[]frame.Column{
			frame.Ints([]int64{7}),
			frame.Strings([]string{"x"}),
		},
	)
	ba := mustTable(t,
		[]string{"b", "a"},
		[]frame.Column{
			frame.Strings([]string{"x"}),
			frame.Ints([]int64{7}),
		},
	)

	const nbins = 1 << 20
	habBins := newHasher([]string{"a", "b"}, nbins, true).binner().row(ab, 0, nil)
	hbaBins := newHasher([]string{"b", "a"}, nbins, true).binner().row(ba, 0, nil)

	// single-column bins come out in column order, so compare as sets
	assert.ElementsMatch(t, habBins, hbaBins)

	// the interaction bin is last in both and must match exactly
	assert.Equal(t, habBins[len(habBins)-1], hbaBins[len(hbaBins)-1])
}

func TestHasherBinsPerRow(t *testing.T) {
	names := []string{"a", "b", "c"}

	plain := newHasher(names, 1024, false)
	assert.Equal(t, 3, plain.binsPerRow())

	interacted := newHasher(names, 1024, true)
	assert.Equal(t, 3+3, interacted.binsPerRow())

	tbl := mustTable(t, names, []frame.Column{
		frame.Floats([]float64{1.5}),
		frame.Floats([]float64{2.5}),
		frame.Floats([]float64{3.5}),
	})
	bins := interacted.binner().row(tbl, 0, nil)
	assert.Len(t, bins, 6)
	for _, bin := range bins {
		assert.Less(t, bin, uint64(1024))
	}
}

func TestHasherFloatWidening(t *testing.T) {
	f32 := mustTable(t, []string{"x"}, []frame.Column{frame.Floats32([]float32{2.5})})
	f64 := mustTable(t, []string{"x"}, []frame.Column{frame.Floats([]float64{2.5})})

	h := newHasher([]string{"x"}, 1<<20, false)
	assert.Equal(t,
		h.binner().row(f32, 0, nil),
		h.binner().row(f64, 0, nil),
	)
}

func TestHasherNameQualified(t *testing.T) {
	// identical values under different column names land in different bins
	tbl := mustTable(t,
		[]string{"a", "b"},
		[]frame.Column{
			frame.Ints([]int64{5}),
			frame.Ints([]int64{5}),
		},
	)
	h := newHasher([]string{"a", "b"}, 1<<30, false)
	bins := h.binner().row(tbl, 0, nil)
	assert.NotEqual(t, bins[0], bins[1])
}
