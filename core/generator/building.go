package generator

import (
	"github.com/kilianp07/occsched/core/activity"
	"github.com/kilianp07/occsched/core/fixtures"
	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/setpoint"
)

// Building is the per-building input of a generation run.
type Building struct {
	ID        string `json:"id" yaml:"id"`
	Seed      uint64 `json:"seed" yaml:"seed"`
	Occupants int    `json:"occupants" yaml:"occupants"`
	// StateCode selects the row of the monthly shift tables; empty means
	// no shift.
	StateCode string           `json:"state_code" yaml:"state_code"`
	Vacancy   *model.DateRange `json:"vacancy,omitempty" yaml:"vacancy,omitempty"`
	HVAC      setpoint.Config  `json:"hvac" yaml:"hvac"`
	// Templates override the built-in occupancy-modulated shapes.
	Templates activity.Templates `json:"templates,omitempty" yaml:"templates,omitempty"`
	// Fixtures replace the built-in synthesizer coefficients.
	Fixtures *fixtures.Params `json:"fixtures,omitempty" yaml:"fixtures,omitempty"`
}

// Validate checks the fields that do not need the calendar.
func (b Building) Validate() error {
	if b.Occupants < 0 {
		return &model.ConfigurationError{Field: "building.occupants", Reason: "must not be negative"}
	}
	if b.Fixtures != nil {
		return b.Fixtures.Validate()
	}
	return nil
}
