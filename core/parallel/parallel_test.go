package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversAllIndices(t *testing.T) {
	const n = 10000
	var sum int64

	Parallelize(n, func(start, end int) {
		var local int64
		for i := start; i < end; i++ {
			local += int64(i)
		}
		atomic.AddInt64(&sum, local)
	})

	want := int64(n) * (n - 1) / 2
	if sum != want {
		t.Errorf("expected sum %d, got %d", want, sum)
	}
}

func TestParallelizeEmpty(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) {
		if start != end {
			called = true
		}
	})
	if called {
		t.Error("no non-empty chunk expected for n=0")
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	chunks := 0
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		chunks++
		if start != 0 || end != 10 {
			t.Errorf("expected single chunk [0,10), got [%d,%d)", start, end)
		}
	})
	if chunks != 1 {
		t.Errorf("expected 1 sequential chunk, got %d", chunks)
	}
}
