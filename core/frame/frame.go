// Package frame implements a small columnar frame: named, typed columns
// of equal length with scalar access by (row, column). It is the tabular
// input and output format for the FTRL estimator and supports CSV I/O and
// gonum matrix adapters.
package frame

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

// DType identifies the declared type of a column.
type DType int

const (
	// Bool is a boolean column.
	Bool DType = iota
	// Int is an int64 column.
	Int
	// Float32 is a single precision float column.
	Float32
	// Float64 is a double precision float column.
	Float64
	// String is a string column.
	String
)

// String returns the lowercase type name.
func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	}
	return fmt.Sprintf("DType(%d)", int(d))
}

// Value is a scalar cell. Kind selects which field is meaningful.
type Value struct {
	Kind DType
	B    bool
	I    int64
	F    float64
	S    string
}

// Float64 converts numeric and boolean cells to float64. String cells
// convert to 0.
func (v Value) Float64() float64 {
	switch v.Kind {
	case Bool:
		if v.B {
			return 1
		}
		return 0
	case Int:
		return float64(v.I)
	case Float32, Float64:
		return v.F
	}
	return 0
}

// IsTrue reports the truthiness of the cell: true booleans, nonzero
// numbers and non-empty strings.
func (v Value) IsTrue() bool {
	switch v.Kind {
	case Bool:
		return v.B
	case Int:
		return v.I != 0
	case Float32, Float64:
		return v.F != 0
	case String:
		return v.S != ""
	}
	return false
}

// String returns the canonical text form of the cell, used for label
// matching and CSV output.
func (v Value) String() string {
	switch v.Kind {
	case Bool:
		return strconv.FormatBool(v.B)
	case Int:
		return strconv.FormatInt(v.I, 10)
	case Float32:
		return strconv.FormatFloat(v.F, 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case String:
		return v.S
	}
	return ""
}

// Frame is the read interface consumed by estimators: row and column
// counts, column names and declared types, and scalar access.
type Frame interface {
	NumRows() int
	NumCols() int
	ColName(j int) string
	ColType(j int) DType
	At(i, j int) Value
}

// Column is one typed column of a Table. Columns are created with the
// Bools, Ints, Floats32, Floats and Strings constructors.
type Column interface {
	Len() int
	Type() DType
	value(i int) Value
}

type boolColumn []bool

func (c boolColumn) Len() int          { return len(c) }
func (c boolColumn) Type() DType       { return Bool }
func (c boolColumn) value(i int) Value { return Value{Kind: Bool, B: c[i]} }

type intColumn []int64

func (c intColumn) Len() int          { return len(c) }
func (c intColumn) Type() DType       { return Int }
func (c intColumn) value(i int) Value { return Value{Kind: Int, I: c[i]} }

type float32Column []float32

func (c float32Column) Len() int    { return len(c) }
func (c float32Column) Type() DType { return Float32 }
func (c float32Column) value(i int) Value {
	return Value{Kind: Float32, F: float64(c[i])}
}

type float64Column []float64

func (c float64Column) Len() int          { return len(c) }
func (c float64Column) Type() DType       { return Float64 }
func (c float64Column) value(i int) Value { return Value{Kind: Float64, F: c[i]} }

type stringColumn []string

func (c stringColumn) Len() int          { return len(c) }
func (c stringColumn) Type() DType       { return String }
func (c stringColumn) value(i int) Value { return Value{Kind: String, S: c[i]} }

// Bools creates a boolean column.
func Bools(data []bool) Column { return boolColumn(data) }

// Ints creates an int64 column.
func Ints(data []int64) Column { return intColumn(data) }

// Floats32 creates a float32 column.
func Floats32(data []float32) Column { return float32Column(data) }

// Floats creates a float64 column.
func Floats(data []float64) Column { return float64Column(data) }

// Strings creates a string column.
func Strings(data []string) Column { return stringColumn(data) }

// Table is the concrete Frame implementation: a list of named columns of
// equal length.
type Table struct {
	names []string
	cols  []Column
	nrows int
}

// NewTable creates a Table from parallel slices of names and columns.
// Every column must have the same length and names must be unique.
func NewTable(names []string, cols []Column) (*Table, error) {
	if len(names) != len(cols) {
		return nil, ftrlErrors.NewDimensionError("frame.NewTable", len(names), len(cols), 1)
	}
	if len(cols) == 0 {
		return nil, ftrlErrors.NewValueError("frame.NewTable", "a table requires at least one column")
	}

	nrows := cols[0].Len()
	seen := make(map[string]bool, len(names))
	for j, col := range cols {
		if col.Len() != nrows {
			return nil, ftrlErrors.NewDimensionError("frame.NewTable", nrows, col.Len(), 0)
		}
		if seen[names[j]] {
			return nil, ftrlErrors.NewValueError("frame.NewTable",
				fmt.Sprintf("duplicate column name %q", names[j]))
		}
		seen[names[j]] = true
	}

	return &Table{names: names, cols: cols, nrows: nrows}, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.nrows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// ColName returns the name of column j.
func (t *Table) ColName(j int) string { return t.names[j] }

// ColType returns the declared type of column j.
func (t *Table) ColType(j int) DType { return t.cols[j].Type() }

// At returns the scalar at (row i, column j).
func (t *Table) At(i, j int) Value { return t.cols[j].value(i) }

// ColNames returns a copy of the column names in order.
func (t *Table) ColNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Select returns a new table holding the named columns in the given
// order. Column data is shared, not copied.
func (t *Table) Select(names ...string) (*Table, error) {
	index := make(map[string]int, len(t.names))
	for j, name := range t.names {
		index[name] = j
	}

	cols := make([]Column, len(names))
	for k, name := range names {
		j, ok := index[name]
		if !ok {
			return nil, ftrlErrors.NewValueError("frame.Select",
				fmt.Sprintf("no column named %q", name))
		}
		cols[k] = t.cols[j]
	}
	return NewTable(names, cols)
}

// Drop returns a new table without the named column. Column data is
// shared, not copied.
func (t *Table) Drop(name string) (*Table, error) {
	kept := make([]string, 0, len(t.names))
	found := false
	for _, n := range t.names {
		if n == name {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return nil, ftrlErrors.NewValueError("frame.Drop",
			fmt.Sprintf("no column named %q", name))
	}
	return t.Select(kept...)
}

// FloatCol extracts column j as a float64 slice. String columns are
// rejected.
func (t *Table) FloatCol(j int) ([]float64, error) {
	if j < 0 || j >= len(t.cols) {
		return nil, ftrlErrors.NewValueError("frame.FloatCol",
			fmt.Sprintf("column index %d out of range [0, %d)", j, len(t.cols)))
	}
	if t.cols[j].Type() == String {
		return nil, ftrlErrors.NewValueError("frame.FloatCol",
			fmt.Sprintf("column %q has type string, expected a numeric type", t.names[j]))
	}
	out := make([]float64, t.nrows)
	for i := 0; i < t.nrows; i++ {
		out[i] = t.cols[j].value(i).Float64()
	}
	return out, nil
}

// FromMatrix converts a gonum matrix into a Table of float64 columns.
// When names is nil, columns are named Column_0, Column_1, ...
func FromMatrix(m mat.Matrix, names []string) (*Table, error) {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, ftrlErrors.NewModelError("frame.FromMatrix", "empty matrix", ftrlErrors.ErrEmptyData)
	}
	if names == nil {
		names = make([]string, cols)
		for j := range names {
			names[j] = fmt.Sprintf("Column_%d", j)
		}
	}
	if len(names) != cols {
		return nil, ftrlErrors.NewDimensionError("frame.FromMatrix", cols, len(names), 1)
	}

	columns := make([]Column, cols)
	for j := 0; j < cols; j++ {
		data := make([]float64, rows)
		for i := 0; i < rows; i++ {
			data[i] = m.At(i, j)
		}
		columns[j] = Floats(data)
	}
	return NewTable(names, columns)
}

// Matrix converts the table into a dense float64 matrix. Boolean and
// integer columns are widened; string columns are rejected.
func (t *Table) Matrix() (*mat.Dense, error) {
	for j, col := range t.cols {
		if col.Type() == String {
			return nil, ftrlErrors.NewValueError("frame.Matrix",
				fmt.Sprintf("column %q has type string and cannot be converted", t.names[j]))
		}
	}
	out := mat.NewDense(t.nrows, len(t.cols), nil)
	for j, col := range t.cols {
		for i := 0; i < t.nrows; i++ {
			out.Set(i, j, col.value(i).Float64())
		}
	}
	return out, nil
}
