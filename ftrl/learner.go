package ftrl

import (
	"fmt"
	"math"

	"github.com/ezoic/ftrl/core/frame"
	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

// kernel is the precision-erased face of the generic learner. Exactly one
// of learner[float32] or learner[float64] backs an estimator, chosen once
// at construction.
type kernel interface {
	trained() bool
	nlabels() int
	dtype() frame.DType

	// ensure allocates the weight store for nlabels labels if absent.
	ensure(nlabels int)

	// applyParams refreshes the regularization and learning rate terms.
	// The bin count is only taken over while no store exists.
	applyParams(p Params)

	// fitRows runs the FTRL-Proximal update for rows [start, end) of fr,
	// one one-vs-rest pass per label. targets holds the true label index
	// per row (-1 for a negative binary row). Importance deltas are
	// accumulated into fi, which must be private to the caller's chunk.
	fitRows(fr frame.Frame, h *hasher, targets []int, start, end int, fi []float64)

	// predictRows fills out[i*nlabels ... i*nlabels+nlabels-1] with the
	// unnormalized per-label probabilities for rows [start, end).
	predictRows(fr frame.Frame, h *hasher, start, end int, out []float64)

	// modelColumns exports the weight store as alternating z/n columns in
	// the configured precision.
	modelColumns(labels []string) ([]string, []frame.Column)

	// setModel validates fr against the store shape and precision and
	// replaces the store. Nothing is mutated on error.
	setModel(fr frame.Frame, nlabels int) error

	encodeState(labels []string) *modelState
	decodeState(ms *modelState, nlabels int) error

	reset()
}

func newKernel(p Params) kernel {
	if p.DoublePrecision {
		return newLearner[float64](p)
	}
	return newLearner[float32](p)
}

// learner is the FTRL-Proximal update/predict engine at a fixed precision.
type learner[T Float] struct {
	alpha T
	beta  T
	l1    T
	l2    T
	nbins uint64
	st    *store[T]
}

func newLearner[T Float](p Params) *learner[T] {
	return &learner[T]{
		alpha: T(p.Alpha),
		beta:  T(p.Beta),
		l1:    T(p.Lambda1),
		l2:    T(p.Lambda2),
		nbins: p.NBins,
	}
}

func (l *learner[T]) trained() bool { return l.st != nil }

func (l *learner[T]) nlabels() int {
	if l.st == nil {
		return 0
	}
	return l.st.nlabels()
}

func (l *learner[T]) dtype() frame.DType {
	var zero T
	if _, ok := any(zero).(float64); ok {
		return frame.Float64
	}
	return frame.Float32
}

func (l *learner[T]) ensure(nlabels int) {
	if l.st == nil {
		l.st = newStore[T](nlabels, l.nbins)
	}
}

func (l *learner[T]) reset() { l.st = nil }

func (l *learner[T]) applyParams(p Params) {
	l.alpha = T(p.Alpha)
	l.beta = T(p.Beta)
	l.l1 = T(p.Lambda1)
	l.l2 = T(p.Lambda2)
	if l.st == nil {
		l.nbins = p.NBins
	}
}

// weight reconstructs the model weight for one bin from its (z, n) pair.
// The closed form keeps L1 thresholding exact: |z| <= lambda1 yields a
// hard zero. Kept inline, never cached, so concurrent updates are always
// observed.
func (l *learner[T]) weight(z, n T) T {
	if z <= l.l1 && z >= -l.l1 {
		return 0
	}
	sign := T(1)
	if z < 0 {
		sign = -1
	}
	return -(z - sign*l.l1) / ((l.beta+T(math.Sqrt(float64(n))))/l.alpha + l.l2)
}

// sigmoidClamp bounds the margin before the logistic transform so exp
// cannot overflow.
const sigmoidClamp = 35.0

func sigmoid(margin float64) float64 {
	if margin > sigmoidClamp {
		margin = sigmoidClamp
	} else if margin < -sigmoidClamp {
		margin = -sigmoidClamp
	}
	return 1.0 / (1.0 + math.Exp(-margin))
}

func (l *learner[T]) fitRows(fr frame.Frame, h *hasher, targets []int, start, end int, fi []float64) {
	st := l.st
	rb := h.binner()
	bins := make([]uint64, 0, h.binsPerRow())
	ncols := len(h.names)
	nlabels := st.nlabels()

	for i := start; i < end; i++ {
		bins = rb.row(fr, i, bins)

		for label := 0; label < nlabels; label++ {
			z, n := st.z[label], st.n[label]

			var margin float64
			for _, bin := range bins {
				mu := st.lock(bin)
				mu.Lock()
				w := l.weight(z[bin], n[bin])
				mu.Unlock()
				margin += float64(w)
			}
			p := sigmoid(margin)

			var y float64
			if targets[i] == label {
				y = 1
			}
			g := T(p - y)
			g2 := g * g

			for k, bin := range bins {
				mu := st.lock(bin)
				mu.Lock()
				w := l.weight(z[bin], n[bin])
				sigma := (T(math.Sqrt(float64(n[bin]+g2))) - T(math.Sqrt(float64(n[bin])))) / l.alpha
				dz := g - sigma*w
				z[bin] += dz
				n[bin] += g2
				mu.Unlock()

				delta := math.Abs(float64(dz))
				if k < ncols {
					fi[k] += delta
				} else {
					pair := h.pairs[k-ncols]
					fi[pair[0]] += delta
					fi[pair[1]] += delta
				}
			}
		}
	}
}

func (l *learner[T]) predictRows(fr frame.Frame, h *hasher, start, end int, out []float64) {
	st := l.st
	rb := h.binner()
	bins := make([]uint64, 0, h.binsPerRow())
	nlabels := st.nlabels()

	for i := start; i < end; i++ {
		bins = rb.row(fr, i, bins)
		for label := 0; label < nlabels; label++ {
			z, n := st.z[label], st.n[label]
			var margin float64
			for _, bin := range bins {
				margin += float64(l.weight(z[bin], n[bin]))
			}
			out[i*nlabels+label] = sigmoid(margin)
		}
	}
}

func (l *learner[T]) modelColumns(labels []string) ([]string, []frame.Column) {
	names := make([]string, 0, 2*len(labels))
	cols := make([]frame.Column, 0, 2*len(labels))
	for label := range labels {
		zCopy := make([]T, l.nbins)
		nCopy := make([]T, l.nbins)
		copy(zCopy, l.st.z[label])
		copy(nCopy, l.st.n[label])

		names = append(names, "z_"+labels[label], "n_"+labels[label])
		cols = append(cols, floatColumn(zCopy), floatColumn(nCopy))
	}
	return names, cols
}

// floatColumn wraps a typed slice in the matching frame column.
func floatColumn[T Float](data []T) frame.Column {
	switch d := any(data).(type) {
	case []float32:
		return frame.Floats32(d)
	case []float64:
		return frame.Floats(d)
	}
	panic("unreachable")
}

func (l *learner[T]) setModel(fr frame.Frame, nlabels int) error {
	const op = "FTRL.SetModel"

	if uint64(fr.NumRows()) != l.nbins {
		return ftrlErrors.NewDimensionError(op, int(l.nbins), fr.NumRows(), 0)
	}
	ncols := fr.NumCols()
	if ncols%2 != 0 {
		return ftrlErrors.NewValueError(op,
			fmt.Sprintf("model frame must have an even number of columns, got %d", ncols))
	}
	if ncols != 2*nlabels {
		return ftrlErrors.NewDimensionError(op, 2*nlabels, ncols, 1)
	}

	want := l.dtype()
	for j := 0; j < ncols; j++ {
		if got := fr.ColType(j); got != want {
			return ftrlErrors.NewValueError(op,
				fmt.Sprintf("column %d must have type %s, got %s", j, want, got))
		}
	}
	for j := 1; j < ncols; j += 2 {
		for i := 0; i < fr.NumRows(); i++ {
			if fr.At(i, j).Float64() < 0 {
				return ftrlErrors.NewValueError(op,
					fmt.Sprintf("column %d holds n accumulators and cannot have negative values", j))
			}
		}
	}

	st := newStore[T](nlabels, l.nbins)
	for label := 0; label < nlabels; label++ {
		for i := 0; i < fr.NumRows(); i++ {
			st.z[label][i] = T(fr.At(i, 2*label).Float64())
			st.n[label][i] = T(fr.At(i, 2*label+1).Float64())
		}
	}
	l.st = st
	return nil
}

func (l *learner[T]) encodeState(labels []string) *modelState {
	if l.st == nil {
		return nil
	}
	names := make([]string, 0, 2*len(labels))
	for _, label := range labels {
		names = append(names, "z_"+label, "n_"+label)
	}
	ms := &modelState{Names: names}
	switch z := any(l.st.z).(type) {
	case [][]float32:
		n := any(l.st.n).([][]float32)
		ms.Z32 = copyMatrix(z)
		ms.N32 = copyMatrix(n)
	case [][]float64:
		n := any(l.st.n).([][]float64)
		ms.Z64 = copyMatrix(z)
		ms.N64 = copyMatrix(n)
	}
	return ms
}

func copyMatrix[T Float](src [][]T) [][]T {
	out := make([][]T, len(src))
	for i := range src {
		out[i] = make([]T, len(src[i]))
		copy(out[i], src[i])
	}
	return out
}

func (l *learner[T]) decodeState(ms *modelState, nlabels int) error {
	const op = "FTRL.UnmarshalBinary"

	var zSrc, nSrc [][]T
	switch any(zSrc).(type) {
	case [][]float32:
		if ms.Z32 == nil || ms.N32 == nil {
			return ftrlErrors.NewValueError(op,
				"snapshot model precision does not match the configured single precision")
		}
		zSrc = any(ms.Z32).([][]T)
		nSrc = any(ms.N32).([][]T)
	case [][]float64:
		if ms.Z64 == nil || ms.N64 == nil {
			return ftrlErrors.NewValueError(op,
				"snapshot model precision does not match the configured double precision")
		}
		zSrc = any(ms.Z64).([][]T)
		nSrc = any(ms.N64).([][]T)
	}

	if len(zSrc) != nlabels || len(nSrc) != nlabels {
		return ftrlErrors.NewDimensionError(op, nlabels, len(zSrc), 1)
	}
	for label := 0; label < nlabels; label++ {
		if uint64(len(zSrc[label])) != l.nbins {
			return ftrlErrors.NewDimensionError(op, int(l.nbins), len(zSrc[label]), 0)
		}
		if uint64(len(nSrc[label])) != l.nbins {
			return ftrlErrors.NewDimensionError(op, int(l.nbins), len(nSrc[label]), 0)
		}
		for _, v := range nSrc[label] {
			if v < 0 {
				return ftrlErrors.NewValueError(op, "n accumulators cannot be negative")
			}
		}
	}

	st := newStore[T](nlabels, l.nbins)
	for label := 0; label < nlabels; label++ {
		copy(st.z[label], zSrc[label])
		copy(st.n[label], nSrc[label])
	}
	l.st = st
	return nil
}
