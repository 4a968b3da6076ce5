// Package sizing chooses the installed capacity (kWp) of a system from the
// user's bill, the site's specific yield and the roof's capacity ceiling.
package sizing

import (
	"math"

	"pv-estimator/internal/model"
)

// ResolveTariff picks the tariff (BRL/kWh) in priority order:
//  1. explicit tariff when > 0
//  2. spend / consumption when both are informed
//  3. the configured default
func ResolveTariff(bill model.BillInput, params model.SolarParams) float64 {
	if bill.TariffBRLkWh > 0 {
		return bill.TariffBRLkWh
	}
	if bill.MonthlySpendBRL > 0 && bill.MonthlyConsumptionKWh > 0 {
		return bill.MonthlySpendBRL / bill.MonthlyConsumptionKWh
	}
	return params.DefaultTariffBRLkWh
}

// ResolveConsumption picks the monthly consumption (kWh) in priority order:
//  1. explicit consumption when > 0
//  2. spend / tariff when the tariff is > 0
//  3. zero
func ResolveConsumption(bill model.BillInput, tariff float64) float64 {
	if bill.MonthlyConsumptionKWh > 0 {
		return bill.MonthlyConsumptionKWh
	}
	if bill.MonthlySpendBRL > 0 && tariff > 0 {
		return bill.MonthlySpendBRL / tariff
	}
	return 0
}

// Demand is the resolved billing side of an estimate.
type Demand struct {
	TariffBRLkWh          float64
	ConsumptionKWh        float64
	CompensationTargetPct float64
	// TargetKWh is the monthly energy the system is sized to produce.
	TargetKWh float64
}

func ResolveDemand(bill model.BillInput, params model.SolarParams) Demand {
	tariff := ResolveTariff(bill, params)
	consumption := ResolveConsumption(bill, tariff)
	pct := bill.CompensationTargetPct
	if pct <= 0 {
		pct = params.CompensationTargetDefaultPct
	}
	return Demand{
		TariffBRLkWh:          tariff,
		ConsumptionKWh:        consumption,
		CompensationTargetPct: pct,
		TargetKWh:             consumption * (pct / 100),
	}
}

// CapacityCeiling is the largest system (kWp) that fits usableAreaM2: the
// areal-density limit, lowered to the whole-module limit when module sizing
// is configured. A roof smaller than one module holds nothing. A non-positive
// area returns 0.
func CapacityCeiling(usableAreaM2 float64, params model.SolarParams) float64 {
	if usableAreaM2 <= 0 {
		return 0
	}
	ceiling := usableAreaM2 * params.KwpPerSquareMeter
	if params.HasPanelSizing() {
		panels := math.Floor(usableAreaM2 / params.PanelAreaM2)
		ceiling = math.Min(ceiling, panels*params.PanelWp/1000)
	}
	return ceiling
}

// Decision is the outcome of Dimension.
type Decision struct {
	// TargetKwp is the unconstrained size implied by demand.
	TargetKwp float64
	Kwp       float64
	KwpMax    float64
	// Capped is set when demand asked for more than the roof can hold.
	Capped bool
}

// Dimension sizes the system to cover targetKWh per month at avgYield
// kWh/kWp/month, clamped to [0, kwpMax]. A kwpMax of +Inf leaves the target
// unclamped; a non-positive kwpMax forces 0.
func Dimension(targetKWh, avgYield, kwpMax float64) Decision {
	d := Decision{KwpMax: kwpMax}
	if avgYield > 0 {
		d.TargetKwp = targetKWh / avgYield
	}
	if kwpMax > 0 {
		d.Kwp = math.Min(math.Max(d.TargetKwp, 0), kwpMax)
	}
	d.Capped = kwpMax > 0 && d.TargetKwp > kwpMax
	return d
}
