package fixtures

import (
	"fmt"

	"github.com/kilianp07/occsched/core/model"
)

// Flow is a Gaussian flow-rate model in gallons per minute.
type Flow struct {
	Mean float64 `json:"mean" mapstructure:"mean" yaml:"mean"`
	Std  float64 `json:"std" mapstructure:"std" yaml:"std"`
	Min  float64 `json:"min" mapstructure:"min" yaml:"min"`
}

// ClusterParams configure a cluster-based water end use.
type ClusterParams struct {
	// ClustersPerYear is the average annual cluster count of a household.
	ClustersPerYear float64 `json:"clusters_per_year" mapstructure:"clusters_per_year" yaml:"clusters_per_year"`
	// Scale and Base size the household: clusters scale by Scale*occupants+Base.
	Scale float64 `json:"scale" mapstructure:"scale" yaml:"scale"`
	Base  float64 `json:"base" mapstructure:"base" yaml:"base"`
	// GapMinutes separates consecutive events of a cluster.
	GapMinutes int         `json:"gap_minutes" mapstructure:"gap_minutes" yaml:"gap_minutes"`
	Onset      [24]float64 `json:"onset" mapstructure:"onset" yaml:"onset"`
	Flow       Flow        `json:"flow" mapstructure:"flow" yaml:"flow"`
}

// ShowerParams configure the shower and bath end uses.
type ShowerParams struct {
	ShowerFlow Flow `json:"shower_flow" mapstructure:"shower_flow" yaml:"shower_flow"`
	BathFlow   Flow `json:"bath_flow" mapstructure:"bath_flow" yaml:"bath_flow"`
	// BathRatio is the share of bathing events that are baths.
	BathRatio float64 `json:"bath_ratio" mapstructure:"bath_ratio" yaml:"bath_ratio"`
	// BathDuration is in minutes.
	BathDuration Flow `json:"bath_duration" mapstructure:"bath_duration" yaml:"bath_duration"`
}

// Params hold every synthesizer coefficient.
type Params struct {
	Sink               ClusterParams `json:"sink" mapstructure:"sink" yaml:"sink"`
	DishwasherWater    ClusterParams `json:"dishwasher_water" mapstructure:"dishwasher_water" yaml:"dishwasher_water"`
	ClothesWasherWater ClusterParams `json:"clothes_washer_water" mapstructure:"clothes_washer_water" yaml:"clothes_washer_water"`
	Shower             ShowerParams  `json:"shower" mapstructure:"shower" yaml:"shower"`
	// DryerGapMinutes separates a washer cycle from the following dryer cycle.
	DryerGapMinutes int `json:"dryer_gap_minutes" mapstructure:"dryer_gap_minutes" yaml:"dryer_gap_minutes"`
	// OffsetMinutes bounds the random per-series rotation.
	OffsetMinutes int `json:"offset_minutes" mapstructure:"offset_minutes" yaml:"offset_minutes"`
}

// DefaultParams returns the built-in coefficients.
func DefaultParams() Params {
	return Params{
		Sink: ClusterParams{
			ClustersPerYear: 6657,
			Scale:           0.29,
			Base:            0.26,
			GapMinutes:      2,
			Onset: [24]float64{0.014, 0.007, 0.005, 0.005, 0.007, 0.018, 0.042, 0.062, 0.066, 0.062, 0.054, 0.050,
				0.049, 0.045, 0.041, 0.043, 0.048, 0.065, 0.075, 0.069, 0.057, 0.048, 0.040, 0.027},
			Flow: Flow{Mean: 1.14, Std: 0.61, Min: 0.1},
		},
		DishwasherWater: ClusterParams{
			ClustersPerYear: 151,
			Scale:           0.29,
			Base:            0.26,
			GapMinutes:      10,
			Onset: [24]float64{0.020, 0.010, 0.005, 0.003, 0.003, 0.010, 0.020, 0.050, 0.060, 0.060, 0.050, 0.050,
				0.060, 0.060, 0.040, 0.030, 0.030, 0.040, 0.070, 0.090, 0.090, 0.070, 0.050, 0.030},
			Flow: Flow{Mean: 1.39, Std: 0.2, Min: 0.1},
		},
		ClothesWasherWater: ClusterParams{
			ClustersPerYear: 123,
			Scale:           0.29,
			Base:            0.26,
			GapMinutes:      5,
			Onset: [24]float64{0.009, 0.007, 0.004, 0.004, 0.004, 0.009, 0.020, 0.040, 0.070, 0.080, 0.080, 0.080,
				0.070, 0.070, 0.060, 0.060, 0.050, 0.050, 0.050, 0.050, 0.040, 0.030, 0.020, 0.013},
			Flow: Flow{Mean: 2.2, Std: 0.62, Min: 0.1},
		},
		Shower: ShowerParams{
			ShowerFlow:   Flow{Mean: 2.25, Std: 0.68, Min: 0.1},
			BathFlow:     Flow{Mean: 4.4, Std: 1.17, Min: 0.1},
			BathRatio:    0.078,
			BathDuration: Flow{Mean: 5.65, Std: 2.09, Min: 1},
		},
		DryerGapMinutes: 0,
		OffsetMinutes:   30,
	}
}

func (c ClusterParams) validate(field string) error {
	if c.ClustersPerYear < 0 {
		return &model.ConfigurationError{Field: field + ".clusters_per_year", Reason: "must not be negative"}
	}
	if c.GapMinutes < 0 {
		return &model.ConfigurationError{Field: field + ".gap_minutes", Reason: "must not be negative"}
	}
	for h, v := range c.Onset {
		if v < 0 {
			return &model.ConfigurationError{Field: field + ".onset", Reason: fmt.Sprintf("negative weight at hour %d", h)}
		}
	}
	return c.Flow.validate(field + ".flow")
}

func (f Flow) validate(field string) error {
	switch {
	case f.Mean < 0:
		return &model.ConfigurationError{Field: field + ".mean", Reason: "must not be negative"}
	case f.Std < 0:
		return &model.ConfigurationError{Field: field + ".std", Reason: "must not be negative"}
	case f.Min < 0:
		return &model.ConfigurationError{Field: field + ".min", Reason: "must not be negative"}
	}
	return nil
}

// Validate checks every coefficient.
func (p Params) Validate() error {
	if err := p.Sink.validate("fixtures.sink"); err != nil {
		return err
	}
	if err := p.DishwasherWater.validate("fixtures.dishwasher_water"); err != nil {
		return err
	}
	if err := p.ClothesWasherWater.validate("fixtures.clothes_washer_water"); err != nil {
		return err
	}
	if p.Shower.BathRatio < 0 || p.Shower.BathRatio > 1 {
		return &model.ConfigurationError{Field: "fixtures.shower.bath_ratio", Reason: "must be within [0, 1]"}
	}
	if err := p.Shower.ShowerFlow.validate("fixtures.shower.shower_flow"); err != nil {
		return err
	}
	if err := p.Shower.BathFlow.validate("fixtures.shower.bath_flow"); err != nil {
		return err
	}
	if err := p.Shower.BathDuration.validate("fixtures.shower.bath_duration"); err != nil {
		return err
	}
	if p.DryerGapMinutes < 0 {
		return &model.ConfigurationError{Field: "fixtures.dryer_gap_minutes", Reason: "must not be negative"}
	}
	if p.OffsetMinutes < 0 || p.OffsetMinutes > model.MinutesPerDay/2 {
		return &model.ConfigurationError{Field: "fixtures.offset_minutes", Reason: "must be within [0, 720]"}
	}
	return nil
}
