package frame_test

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/ftrl/core/frame"
)

func TestNewTableValidation(t *testing.T) {
	_, err := frame.NewTable([]string{"a", "b"}, []frame.Column{frame.Floats([]float64{1, 2})})
	if err == nil {
		t.Error("mismatched names/columns should fail")
	}

	_, err = frame.NewTable(
		[]string{"a", "b"},
		[]frame.Column{frame.Floats([]float64{1, 2}), frame.Floats([]float64{1})},
	)
	if err == nil {
		t.Error("ragged columns should fail")
	}

	_, err = frame.NewTable(
		[]string{"a", "a"},
		[]frame.Column{frame.Floats([]float64{1}), frame.Floats([]float64{2})},
	)
	if err == nil {
		t.Error("duplicate column names should fail")
	}
}

func TestTableAccessors(t *testing.T) {
	tbl, err := frame.NewTable(
		[]string{"flag", "count", "ratio", "tag"},
		[]frame.Column{
			frame.Bools([]bool{true, false}),
			frame.Ints([]int64{3, -1}),
			frame.Floats([]float64{0.5, 1.25}),
			frame.Strings([]string{"x", "y"}),
		},
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	if tbl.NumRows() != 2 || tbl.NumCols() != 4 {
		t.Fatalf("expected 2x4 table, got %dx%d", tbl.NumRows(), tbl.NumCols())
	}
	if tbl.ColType(0) != frame.Bool || tbl.ColType(3) != frame.String {
		t.Error("column types not preserved")
	}

	if !tbl.At(0, 0).IsTrue() || tbl.At(1, 0).IsTrue() {
		t.Error("bool cell truthiness wrong")
	}
	if got := tbl.At(1, 1).Float64(); got != -1 {
		t.Errorf("expected -1, got %v", got)
	}
	if got := tbl.At(0, 3).String(); got != "x" {
		t.Errorf("expected \"x\", got %q", got)
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	tbl, err := frame.FromMatrix(m, []string{"f0", "f1"})
	if err != nil {
		t.Fatalf("FromMatrix failed: %v", err)
	}

	back, err := tbl.Matrix()
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	if !mat.Equal(m, back) {
		t.Error("matrix round trip changed values")
	}
}

func TestMatrixRejectsStrings(t *testing.T) {
	tbl, err := frame.NewTable(
		[]string{"tag"},
		[]frame.Column{frame.Strings([]string{"a"})},
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	if _, err := tbl.Matrix(); err == nil {
		t.Error("string column should not convert to a matrix")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	in := strings.Join([]string{
		"age,score,name",
		"31,0.25,alice",
		"45,1.5,bob",
		"27,-3,carol",
	}, "\n")

	tbl, err := frame.ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if tbl.NumRows() != 3 || tbl.NumCols() != 3 {
		t.Fatalf("expected 3x3 table, got %dx%d", tbl.NumRows(), tbl.NumCols())
	}
	if tbl.ColType(0) != frame.Int {
		t.Errorf("age should infer int64, got %v", tbl.ColType(0))
	}
	if tbl.ColType(1) != frame.Float64 {
		t.Errorf("score should infer float64, got %v", tbl.ColType(1))
	}
	if tbl.ColType(2) != frame.String {
		t.Errorf("name should infer string, got %v", tbl.ColType(2))
	}

	var buf bytes.Buffer
	if err := frame.WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	again, err := frame.ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV of written output failed: %v", err)
	}
	for i := 0; i < tbl.NumRows(); i++ {
		for j := 0; j < tbl.NumCols(); j++ {
			if tbl.At(i, j).String() != again.At(i, j).String() {
				t.Errorf("cell (%d,%d) changed in round trip: %q vs %q",
					i, j, tbl.At(i, j).String(), again.At(i, j).String())
			}
		}
	}
}

func TestReadCSVRejectsEmpty(t *testing.T) {
	if _, err := frame.ReadCSV(strings.NewReader("")); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := frame.ReadCSV(strings.NewReader("a,b\n")); err == nil {
		t.Error("header-only input should fail")
	}
}

func TestSelectAndDrop(t *testing.T) {
	tbl, err := frame.NewTable(
		[]string{"a", "b", "c"},
		[]frame.Column{
			frame.Ints([]int64{1, 2}),
			frame.Floats([]float64{0.5, 1.5}),
			frame.Strings([]string{"x", "y"}),
		},
	)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	sel, err := tbl.Select("c", "a")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.NumCols() != 2 || sel.ColName(0) != "c" || sel.ColName(1) != "a" {
		t.Errorf("Select returned wrong columns: %v", sel.ColNames())
	}
	if sel.At(1, 1).I != 2 {
		t.Errorf("Select lost data: got %v", sel.At(1, 1))
	}

	if _, err := tbl.Select("missing"); err == nil {
		t.Error("Select of unknown column should fail")
	}

	dropped, err := tbl.Drop("b")
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if dropped.NumCols() != 2 || dropped.ColName(0) != "a" || dropped.ColName(1) != "c" {
		t.Errorf("Drop returned wrong columns: %v", dropped.ColNames())
	}
	if _, err := tbl.Drop("missing"); err == nil {
		t.Error("Drop of unknown column should fail")
	}
}
