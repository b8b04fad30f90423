// Package export writes generated schedules as CSV, JSON and HTML charts.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kilianp07/occsched/core/model"
)

// DefaultPrecision is the number of decimals written per value.
const DefaultPrecision = 5

// Table is a column-oriented view of an exported file.
type Table struct {
	Header  []string
	Columns [][]float64
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	for i, h := range t.Header {
		if h == name {
			return t.Columns[i], true
		}
	}
	return nil, false
}

// FromSchedule selects columns of s in the requested order. An empty
// selection takes every present column.
func FromSchedule(s *model.Schedule, columns []string) (*Table, error) {
	names, err := model.ResolveColumns(s, columns)
	if err != nil {
		return nil, err
	}
	t := &Table{Header: names, Columns: make([][]float64, len(names))}
	for i, n := range names {
		t.Columns[i], _ = s.Get(n)
	}
	return t, nil
}

// WriteCSV writes t with one header row and one row per step. A negative
// precision selects DefaultPrecision.
func WriteCSV(w io.Writer, t *Table, precision int) error {
	if precision < 0 {
		precision = DefaultPrecision
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for r := 0; r < t.Rows(); r++ {
		for c, col := range t.Columns {
			rec[c] = strconv.FormatFloat(col[r], 'f', precision, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header")
		}
		return nil, err
	}
	t := &Table{Header: header, Columns: make([][]float64, len(header))}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for c, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %s: %w", line, header[c], err)
			}
			t.Columns[c] = append(t.Columns[c], v)
		}
	}
	return t, nil
}

// Merge appends the columns of add to base. Both must have the same row
// count and no column may appear twice.
func Merge(base, add *Table) (*Table, error) {
	if base.Rows() != add.Rows() {
		return nil, &model.ConfigurationError{
			Field:  "output.append",
			Reason: fmt.Sprintf("existing file has %d rows, schedule has %d", base.Rows(), add.Rows()),
		}
	}
	for _, h := range add.Header {
		if _, ok := base.Column(h); ok {
			return nil, &model.ConfigurationError{Field: "output.append", Reason: fmt.Sprintf("column %q already present", h)}
		}
	}
	return &Table{
		Header:  append(append([]string{}, base.Header...), add.Header...),
		Columns: append(append([][]float64{}, base.Columns...), add.Columns...),
	}, nil
}

// WriteFile writes t to path. With appendMode an existing file is read
// back, checked with Merge and rewritten with the new columns on the right.
// The file is replaced atomically.
func WriteFile(path string, t *Table, precision int, appendMode bool) error {
	if appendMode {
		f, err := os.Open(path)
		switch {
		case err == nil:
			existing, rerr := ReadCSV(f)
			_ = f.Close()
			if rerr != nil {
				return fmt.Errorf("read %s: %w", path, rerr)
			}
			if t, err = Merge(existing, t); err != nil {
				return err
			}
		case !errors.Is(err, os.ErrNotExist):
			return err
		}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".occsched-*.csv")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := WriteCSV(tmp, t, precision); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
