// Package dataset reads and writes numeric matrices as CSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmpty indicates a file with no data rows.
	ErrEmpty = errors.New("dataset: no data rows")

	// ErrRagged indicates rows with differing column counts.
	ErrRagged = errors.New("dataset: rows have differing column counts")
)

// Load reads a matrix from a CSV file. A first row that does not parse as
// numbers is treated as a header and skipped.
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read reads a matrix from CSV data.
func Read(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		rows [][]float64
		cols int
	)

	first := true
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) == 0 {
			continue
		}

		row, parseErr := parseRow(rec)
		if first {
			first = false
			if parseErr != nil {
				// header row
				continue
			}
		} else if parseErr != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, parseErr)
		}

		if cols == 0 {
			cols = len(row)
		} else if len(row) != cols {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d", ErrRagged, line, len(row), cols)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	data := make([]float64, 0, len(rows)*cols)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// Save writes a matrix to a CSV file.
func Save(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, m)
}

// Write writes a matrix as CSV, one record per row, with full float64
// precision so values round-trip exactly.
func Write(w io.Writer, m mat.Matrix) error {
	cw := csv.NewWriter(w)

	r, c := m.Dims()
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func parseRow(rec []string) ([]float64, error) {
	row := make([]float64, len(rec))
	for i, field := range rec {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}
