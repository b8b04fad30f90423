package resources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/occsched/core/model"
)

// Tolerance is the accepted deviation of a probability vector sum from 1.
const Tolerance = 1e-3

func formatErr(path, format string, args ...any) error {
	return &model.ResourceFormatError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// readRecords returns the non-comment records of a CSV file. A first record
// whose leading field is not numeric is treated as a header and dropped when
// numericLead is set.
func readRecords(path string, numericLead bool) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, formatErr(path, "file not found")
		}
		return nil, formatErr(path, "open: %v", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, formatErr(path, "parse: %v", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		out = append(out, rec)
	}
	if len(out) > 0 && numericLead {
		if _, err := strconv.ParseFloat(strings.TrimSpace(out[0][0]), 64); err != nil {
			out = out[1:]
		}
	}
	if len(out) == 0 {
		return nil, formatErr(path, "no data rows")
	}
	return out, nil
}

// readMatrix parses a numeric CSV file where every row has cols fields.
func readMatrix(path string, cols int) ([][]float64, error) {
	recs, err := readRecords(path, true)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(recs))
	for i, rec := range recs {
		if len(rec) != cols {
			return nil, formatErr(path, "row %d has %d columns, want %d", i+1, len(rec), cols)
		}
		row := make([]float64, cols)
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, formatErr(path, "row %d column %d: invalid number %q", i+1, j+1, field)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}

// checkProbabilities rejects vectors with negative entries or a sum away
// from one.
func checkProbabilities(path, what string, p []float64) error {
	for i, v := range p {
		if v < 0 {
			return formatErr(path, "%s entry %d is negative (%g)", what, i, v)
		}
	}
	if sum := floats.Sum(p); math.Abs(sum-1) > Tolerance {
		return formatErr(path, "%s sums to %.6f, want 1", what, sum)
	}
	return nil
}

// Distribution pairs discrete values with their probabilities.
type Distribution struct {
	Values []float64
	Probs  []float64
}

// Len returns the number of outcomes.
func (d Distribution) Len() int { return len(d.Values) }

// readDistribution loads a two-column (value, probability) table.
func readDistribution(path string) (Distribution, error) {
	rows, err := readMatrix(path, 2)
	if err != nil {
		return Distribution{}, err
	}
	d := Distribution{Values: make([]float64, len(rows)), Probs: make([]float64, len(rows))}
	for i, r := range rows {
		d.Values[i] = r[0]
		d.Probs[i] = r[1]
	}
	if err := checkProbabilities(path, "probability column", d.Probs); err != nil {
		return Distribution{}, err
	}
	return d, nil
}
