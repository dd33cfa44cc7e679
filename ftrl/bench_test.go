package ftrl

import (
	"fmt"
	"testing"

	"github.com/ezoic/ftrl/core/frame"
)

func benchFrame(b *testing.B, nrows int) (*frame.Table, *frame.Table) {
	b.Helper()
	words := make([]string, nrows)
	ages := make([]int64, nrows)
	flags := make([]bool, nrows)
	targets := make([]bool, nrows)
	for i := 0; i < nrows; i++ {
		words[i] = fmt.Sprintf("w%d", i%97)
		ages[i] = int64(18 + i%60)
		flags[i] = i%3 == 0
		targets[i] = i%2 == 0
	}

	X, err := frame.NewTable(
		[]string{"word", "age", "flag"},
		[]frame.Column{frame.Strings(words), frame.Ints(ages), frame.Bools(flags)},
	)
	if err != nil {
		b.Fatal(err)
	}
	y, err := frame.NewTable(
		[]string{"target"},
		[]frame.Column{frame.Bools(targets)},
	)
	if err != nil {
		b.Fatal(err)
	}
	return X, y
}

func BenchmarkFit(b *testing.B) {
	for _, nrows := range []int{100, 10000} {
		b.Run(fmt.Sprintf("rows=%d", nrows), func(b *testing.B) {
			X, y := benchFrame(b, nrows)
			model, err := New(WithNBins(1 << 20))
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := model.Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFitInteractions(b *testing.B) {
	X, y := benchFrame(b, 10000)
	model, err := New(WithNBins(1<<20), WithInteractions(true))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := model.Fit(X, y); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPredict(b *testing.B) {
	X, y := benchFrame(b, 10000)
	model, err := New(WithNBins(1 << 20))
	if err != nil {
		b.Fatal(err)
	}
	if err := model.Fit(X, y); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := model.Predict(X); err != nil {
			b.Fatal(err)
		}
	}
}
