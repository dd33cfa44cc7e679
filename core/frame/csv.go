package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

// ReadCSV parses CSV data into a Table. The first record is the header.
// Column types are inferred per column, narrowing in order
// bool -> int64 -> float64 -> string; a column falls back to the widest
// type any of its cells requires.
func ReadCSV(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) < 1 {
		return nil, ftrlErrors.NewModelError("frame.ReadCSV", "missing header row", ftrlErrors.ErrEmptyData)
	}
	if len(records) < 2 {
		return nil, ftrlErrors.NewModelError("frame.ReadCSV", "no data rows", ftrlErrors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]
	ncols := len(header)

	cols := make([]Column, ncols)
	for j := 0; j < ncols; j++ {
		cells := make([]string, len(rows))
		for i, row := range rows {
			if len(row) != ncols {
				return nil, ftrlErrors.NewDimensionError("frame.ReadCSV", ncols, len(row), 1)
			}
			cells[i] = row[j]
		}
		cols[j] = inferColumn(cells)
	}

	return NewTable(header, cols)
}

// inferColumn picks the narrowest type that parses every cell.
func inferColumn(cells []string) Column {
	isBool, isInt, isFloat := true, true, true
	for _, s := range cells {
		if isBool {
			if _, err := strconv.ParseBool(s); err != nil {
				isBool = false
			}
		}
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
	}

	switch {
	case isBool:
		data := make([]bool, len(cells))
		for i, s := range cells {
			data[i], _ = strconv.ParseBool(s)
		}
		return Bools(data)
	case isInt:
		data := make([]int64, len(cells))
		for i, s := range cells {
			data[i], _ = strconv.ParseInt(s, 10, 64)
		}
		return Ints(data)
	case isFloat:
		data := make([]float64, len(cells))
		for i, s := range cells {
			data[i], _ = strconv.ParseFloat(s, 64)
		}
		return Floats(data)
	}
	return Strings(cells)
}

// WriteCSV writes f to w with a header row.
func WriteCSV(w io.Writer, f Frame) error {
	cw := csv.NewWriter(w)

	header := make([]string, f.NumCols())
	for j := range header {
		header[j] = f.ColName(j)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, f.NumCols())
	for i := 0; i < f.NumRows(); i++ {
		for j := range record {
			record[j] = f.At(i, j).String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
