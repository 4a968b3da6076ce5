package model

import (
	"errors"
	"fmt"
	"math"
)

// MonthsPerYear is the fixed length of every monthly series in the estimator.
const MonthsPerYear = 12

// Angles describe the orientation of the module plane.
// GammaDeg is always stored as a compass bearing (from North, clockwise).
type Angles struct {
	BetaDeg  float64 `json:"beta_deg" yaml:"beta_deg"`
	GammaDeg float64 `json:"gamma_deg" yaml:"gamma_deg"`
}

func (a Angles) Validate() error {
	if !IsNonNegative(a.BetaDeg) || a.BetaDeg > 90 {
		return errors.New("tilt (beta_deg) must be within [0, 90]")
	}
	if math.IsNaN(a.GammaDeg) || math.IsInf(a.GammaDeg, 0) {
		return errors.New("azimuth (gamma_deg) must be a finite number")
	}
	return nil
}

// MonthlyIrradianceSample is one month of daily-mean irradiation (kWh/m²/day).
type MonthlyIrradianceSample struct {
	Month string  `json:"month"`
	GHI   float64 `json:"ghi"`
	DHI   float64 `json:"dhi"`
	DNI   float64 `json:"dni"`
}

// ValidateDataset checks that a supplied dataset covers exactly one year of
// finite, non-negative irradiance.
func ValidateDataset(samples []MonthlyIrradianceSample) error {
	if len(samples) != MonthsPerYear {
		return fmt.Errorf("dataset must have %d months, got %d", MonthsPerYear, len(samples))
	}
	for i, s := range samples {
		if !IsNonNegative(s.GHI) || !IsNonNegative(s.DHI) || !IsNonNegative(s.DNI) {
			return fmt.Errorf("dataset month %d (%s): ghi, dhi and dni must be finite and >= 0", i+1, s.Month)
		}
	}
	return nil
}

// BillInput is what the user knows about their electricity bill.
// Zero TariffBRLkWh / MonthlyConsumptionKWh mean "not informed".
type BillInput struct {
	MonthlySpendBRL       float64 `json:"monthly_spend_brl" yaml:"monthly_spend_brl"`
	TariffBRLkWh          float64 `json:"tariff_brl_kwh,omitempty" yaml:"tariff_brl_kwh"`
	MonthlyConsumptionKWh float64 `json:"monthly_consumption_kwh,omitempty" yaml:"monthly_consumption_kwh"`
	// CompensationTargetPct of 0 falls back to SolarParams.CompensationTargetDefaultPct.
	CompensationTargetPct float64 `json:"compensation_target_pct,omitempty" yaml:"compensation_target_pct"`
}

// Validate performs the boundary checks callers run before invoking the engine.
func (b BillInput) Validate() error {
	if !IsPositive(b.MonthlySpendBRL) {
		return errors.New("monthly_spend_brl must be > 0")
	}
	if !IsNonNegative(b.TariffBRLkWh) {
		return errors.New("tariff_brl_kwh must be >= 0")
	}
	if !IsNonNegative(b.MonthlyConsumptionKWh) {
		return errors.New("monthly_consumption_kwh must be >= 0")
	}
	if b.CompensationTargetPct != 0 && (b.CompensationTargetPct < 50 || b.CompensationTargetPct > 100) {
		return fmt.Errorf("compensation_target_pct must be within [50, 100], got %v", b.CompensationTargetPct)
	}
	return nil
}

// IsPositive reports whether v is a finite number > 0.
func IsPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// IsNonNegative reports whether v is a finite number >= 0.
func IsNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
