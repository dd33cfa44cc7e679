package ftrl

import "sync"

// Float constrains the weight store precision, selected once at
// construction via Params.DoublePrecision.
type Float interface {
	~float32 | ~float64
}

// nStripes is the number of bin lock stripes. Bins are striped by their
// low bits; concurrent row workers that collide on a bin serialize on its
// stripe so no (z, n) update is lost.
const nStripes = 1024

// store holds the per-label (z, n) accumulator pairs, one pair per bin.
type store[T Float] struct {
	nbins   uint64
	z       [][]T // [label][bin]
	n       [][]T // [label][bin], n >= 0 always
	stripes [nStripes]sync.Mutex
}

func newStore[T Float](nlabels int, nbins uint64) *store[T] {
	s := &store[T]{nbins: nbins}
	s.z = make([][]T, nlabels)
	s.n = make([][]T, nlabels)
	for l := range s.z {
		s.z[l] = make([]T, nbins)
		s.n[l] = make([]T, nbins)
	}
	return s
}

func (s *store[T]) nlabels() int {
	return len(s.z)
}

// lock returns the stripe mutex guarding bin.
func (s *store[T]) lock(bin uint64) *sync.Mutex {
	return &s.stripes[bin&(nStripes-1)]
}

// zero resets every accumulator without reallocating.
func (s *store[T]) zero() {
	for l := range s.z {
		clear(s.z[l])
		clear(s.n[l])
	}
}
