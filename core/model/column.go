package model

import "fmt"

// Column is a named output channel of a schedule.
type Column struct {
	Name string
	// AffectedByVacancy tells consumers whether the series should be
	// zeroed while the dwelling is vacant. The generator never applies it.
	AffectedByVacancy bool
	// Setpoint columns carry temperatures and are never normalized.
	Setpoint bool
}

// Column names.
const (
	ColumnOccupants             = "occupants"
	ColumnLightingInterior      = "lighting_interior"
	ColumnCookingRange          = "cooking_range"
	ColumnDishwasher            = "dishwasher"
	ColumnClothesWasher         = "clothes_washer"
	ColumnClothesDryer          = "clothes_dryer"
	ColumnCeilingFan            = "ceiling_fan"
	ColumnPlugLoadsOther        = "plug_loads_other"
	ColumnPlugLoadsTV           = "plug_loads_tv"
	ColumnHotWaterDishwasher    = "hot_water_dishwasher"
	ColumnHotWaterClothesWasher = "hot_water_clothes_washer"
	ColumnHotWaterFixtures      = "hot_water_fixtures"
	ColumnHeatingSetpoint       = "heating_setpoint"
	ColumnCoolingSetpoint       = "cooling_setpoint"
	ColumnVacancy               = "vacancy"
	ColumnSleeping              = "sleeping"
)

// Columns is the canonical column order.
var Columns = []Column{
	{Name: ColumnOccupants, AffectedByVacancy: true},
	{Name: ColumnLightingInterior, AffectedByVacancy: true},
	{Name: ColumnCookingRange, AffectedByVacancy: true},
	{Name: ColumnDishwasher, AffectedByVacancy: true},
	{Name: ColumnClothesWasher, AffectedByVacancy: true},
	{Name: ColumnClothesDryer, AffectedByVacancy: true},
	{Name: ColumnCeilingFan, AffectedByVacancy: true},
	{Name: ColumnPlugLoadsOther, AffectedByVacancy: true},
	{Name: ColumnPlugLoadsTV, AffectedByVacancy: true},
	{Name: ColumnHotWaterDishwasher, AffectedByVacancy: true},
	{Name: ColumnHotWaterClothesWasher, AffectedByVacancy: true},
	{Name: ColumnHotWaterFixtures, AffectedByVacancy: true},
	{Name: ColumnHeatingSetpoint, Setpoint: true},
	{Name: ColumnCoolingSetpoint, Setpoint: true},
	{Name: ColumnVacancy},
	{Name: ColumnSleeping},
}

// LookupColumn returns the registered column with the given name.
func LookupColumn(name string) (Column, bool) {
	for _, c := range Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ResolveColumns validates requested names and returns them in the
// requested order. An empty request selects every column present in s.
func ResolveColumns(s *Schedule, names []string) ([]string, error) {
	if len(names) == 0 {
		return s.Names(), nil
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := LookupColumn(n); !ok {
			return nil, &ConfigurationError{Field: "output.columns", Reason: fmt.Sprintf("unknown column %q", n)}
		}
		if seen[n] {
			return nil, &ConfigurationError{Field: "output.columns", Reason: fmt.Sprintf("duplicate column %q", n)}
		}
		if !s.Has(n) {
			return nil, &ConfigurationError{Field: "output.columns", Reason: fmt.Sprintf("column %q was not generated", n)}
		}
		seen[n] = true
	}
	return names, nil
}
