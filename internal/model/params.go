package model

import (
	"errors"
)

// SolarParams are the tuning constants of the estimator. Units:
// - PerformanceRatio, Albedo, UncertaintyPct: fractions
// - KwpPerSquareMeter: kWp per m² of usable area
// - PanelWp: W per module; PanelAreaM2: m² per module (both 0 = no discrete sizing)
// - DefaultTariffBRLkWh: BRL/kWh
// - CompensationTargetDefaultPct: percent
type SolarParams struct {
	PerformanceRatio             float64 `json:"performance_ratio" yaml:"performance_ratio"`
	Albedo                       float64 `json:"albedo" yaml:"albedo"`
	KwpPerSquareMeter            float64 `json:"kwp_per_square_meter" yaml:"kwp_per_square_meter"`
	PanelWp                      float64 `json:"panel_wp,omitempty" yaml:"panel_wp"`
	PanelAreaM2                  float64 `json:"panel_area_m2,omitempty" yaml:"panel_area_m2"`
	DefaultTariffBRLkWh          float64 `json:"default_tariff_brl_kwh" yaml:"default_tariff_brl_kwh"`
	CompensationTargetDefaultPct float64 `json:"compensation_target_default_pct" yaml:"compensation_target_default_pct"`
	UncertaintyPct               float64 `json:"uncertainty_pct" yaml:"uncertainty_pct"`
}

// HasPanelSizing reports whether discrete module sizing is configured.
func (p SolarParams) HasPanelSizing() bool {
	return p.PanelWp > 0 && p.PanelAreaM2 > 0
}

func (p SolarParams) Validate() error {
	if !IsPositive(p.PerformanceRatio) || p.PerformanceRatio > 1 {
		return errors.New("performance_ratio must be in (0, 1]")
	}
	if !IsNonNegative(p.Albedo) || p.Albedo > 1 {
		return errors.New("albedo must be in [0, 1]")
	}
	if !IsPositive(p.KwpPerSquareMeter) {
		return errors.New("kwp_per_square_meter must be > 0")
	}
	if !IsNonNegative(p.PanelWp) || !IsNonNegative(p.PanelAreaM2) {
		return errors.New("panel_wp and panel_area_m2 must be >= 0")
	}
	if !IsPositive(p.DefaultTariffBRLkWh) {
		return errors.New("default_tariff_brl_kwh must be > 0")
	}
	if p.CompensationTargetDefaultPct < 50 || p.CompensationTargetDefaultPct > 100 {
		return errors.New("compensation_target_default_pct must be within [50, 100]")
	}
	if !IsNonNegative(p.UncertaintyPct) || p.UncertaintyPct >= 1 {
		return errors.New("uncertainty_pct must be in [0, 1)")
	}
	return nil
}
