package model

import (
	"encoding/json"
	"math"
)

// DataSource tags where the yield curve of a Result came from.
// Keep these values stable; they are part of the API and report output.
type DataSource string

const (
	SourceManual   DataSource = "MANUAL"
	SourceSolarAPI DataSource = "SOLAR_API"
)

// MonthResult is one month of the estimate. Irradiation fields are monthly
// totals in kWh/m²; SpecificYield is kWh/kWp.
type MonthResult struct {
	Month           string  `json:"month"`
	GHI             float64 `json:"ghi"`
	DHI             float64 `json:"dhi"`
	DNI             float64 `json:"dni"`
	HPOA            float64 `json:"hpoa"`
	SpecificYield   float64 `json:"specific_yield"`
	EnergyKWh       float64 `json:"energy_kwh"`
	SavingsBRL      float64 `json:"savings_brl"`
	UncertaintyLow  float64 `json:"uncertainty_low"`
	UncertaintyHigh float64 `json:"uncertainty_high"`
}

type YearSummary struct {
	Kwp float64 `json:"kwp"`
	// KwpMax is +Inf when the roof reported no area at all.
	KwpMax                  float64 `json:"kwp_max"`
	AnnualGenerationKWh     float64 `json:"annual_generation_kwh"`
	AvgMonthlyGenerationKWh float64 `json:"avg_monthly_generation_kwh"`
	MonthlySavingsBRL       float64 `json:"monthly_savings_brl"`
	AnnualSavingsBRL        float64 `json:"annual_savings_brl"`
	TariffApplied           float64 `json:"tariff_applied"`
	CompensationTargetPct   float64 `json:"compensation_target_pct"`
}

// Unconstrained reports whether no capacity ceiling applied.
func (s YearSummary) Unconstrained() bool {
	return math.IsInf(s.KwpMax, 1)
}

// MarshalJSON writes an unconstrained KwpMax as null; JSON has no infinity.
func (s YearSummary) MarshalJSON() ([]byte, error) {
	type alias YearSummary
	out := struct {
		alias
		KwpMax        *float64 `json:"kwp_max"`
		Unconstrained bool     `json:"unconstrained,omitempty"`
	}{alias: alias(s)}
	if s.Unconstrained() {
		out.Unconstrained = true
	} else {
		v := s.KwpMax
		out.KwpMax = &v
	}
	return json.Marshal(out)
}

func (s *YearSummary) UnmarshalJSON(raw []byte) error {
	type alias YearSummary
	in := struct {
		*alias
		KwpMax        *float64 `json:"kwp_max"`
		Unconstrained bool     `json:"unconstrained"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(raw, &in); err != nil {
		return err
	}
	switch {
	case in.Unconstrained:
		s.KwpMax = math.Inf(1)
	case in.KwpMax != nil:
		s.KwpMax = *in.KwpMax
	}
	return nil
}

// Result is the full output of one estimate.
type Result struct {
	Summary            YearSummary   `json:"summary"`
	Monthly            []MonthResult `json:"monthly"`
	DimensioningCapped bool          `json:"dimensioning_capped"`
	Source             DataSource    `json:"source"`
}
