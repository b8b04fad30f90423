package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/kilianp07/occsched/core/generator"
	"github.com/kilianp07/occsched/core/model"
)

// Document is the JSON representation of a generated schedule.
type Document struct {
	RunID          string               `json:"run_id"`
	Building       string               `json:"building"`
	Seed           uint64               `json:"seed"`
	Year           int                  `json:"year"`
	MinutesPerStep int                  `json:"minutes_per_step"`
	Start          time.Time            `json:"start"`
	Steps          int                  `json:"steps"`
	Order          []string             `json:"order"`
	Columns        map[string][]float64 `json:"columns"`
	Diagnostics    []model.Diagnostic   `json:"diagnostics,omitempty"`
}

// NewDocument selects columns of a result for JSON export.
func NewDocument(res *generator.Result, columns []string) (*Document, error) {
	t, err := FromSchedule(res.Schedule, columns)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		RunID:          res.RunID,
		Building:       res.Building,
		Seed:           res.Seed,
		Year:           res.Calendar.Year,
		MinutesPerStep: res.Calendar.MinutesPerStep,
		Start:          res.Calendar.Date(0),
		Steps:          res.Schedule.Steps(),
		Order:          t.Header,
		Columns:        make(map[string][]float64, len(t.Header)),
		Diagnostics:    res.Diagnostics,
	}
	for i, h := range t.Header {
		doc.Columns[h] = t.Columns[i]
	}
	return doc, nil
}

// WriteJSON writes doc to w.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}
