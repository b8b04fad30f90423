package resources

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/occsched/core/model"
)

// MonthlyShift holds the minute shift per month of one region.
type MonthlyShift [12]int

func shiftPath(root string, dt model.DayType) string {
	return filepath.Join(root, dt.String(), "monthly_shift.csv")
}

// loadShiftTable reads every region row of a day type's shift table. A
// missing file yields an empty table; lookups against it fail later.
func loadShiftTable(root string, dt model.DayType) (map[string]MonthlyShift, error) {
	path := shiftPath(root, dt)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return map[string]MonthlyShift{}, nil
	}
	recs, err := readRecords(path, false)
	if err != nil {
		return nil, err
	}
	out := make(map[string]MonthlyShift, len(recs))
	for i, rec := range recs {
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) != 13 {
			return nil, formatErr(path, "row %d has %d columns, want 13 (code + 12 months)", i+1, len(rec))
		}
		code := strings.ToUpper(strings.TrimSpace(rec[0]))
		var ms MonthlyShift
		for m := 0; m < 12; m++ {
			v, err := strconv.Atoi(strings.TrimSpace(rec[m+1]))
			if err != nil {
				return nil, formatErr(path, "row %d month %d: invalid minute shift %q", i+1, m+1, rec[m+1])
			}
			if v <= -model.MinutesPerDay || v >= model.MinutesPerDay {
				return nil, formatErr(path, "row %d month %d: shift %d exceeds one day", i+1, m+1, v)
			}
			ms[m] = v
		}
		out[code] = ms
	}
	return out, nil
}

func isHeader(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(rec[1]))
	return err != nil
}
