// Package estimate turns a roof, a bill and an irradiance dataset into a
// monthly generation and savings estimate.
//
// The engine is pure: it performs no I/O, keeps no state between calls and
// never fails on degenerate numbers (zero irradiance, zero area, zero
// consumption); those produce zero-valued results. Callers validate the
// boundary conditions (location, spend, roof) before calling.
package estimate

import (
	"fmt"
	"math"

	"pv-estimator/internal/model"
	"pv-estimator/internal/sizing"
	"pv-estimator/internal/transposition"
)

type Engine struct {
	params model.SolarParams
}

func New(params model.SolarParams) *Engine { return &Engine{params: params} }

func (e *Engine) Params() model.SolarParams { return e.params }

// ManualInput is a user-drawn roof with user-chosen angles. The roof
// centroid supplies the latitude.
type ManualInput struct {
	Roof    model.RoofSelection
	Angles  model.Angles
	Bill    model.BillInput
	Dataset []model.MonthlyIrradianceSample
}

// ComputeManual estimates a manually drawn roof.
func (e *Engine) ComputeManual(in ManualInput) model.Result {
	demand := sizing.ResolveDemand(in.Bill, e.params)

	curve := e.PlaneYield(in.Dataset, in.Roof.Centroid.Lat, in.Angles)

	kwpMax := sizing.CapacityCeiling(in.Roof.UsableAreaM2, e.params)
	decision := sizing.Dimension(demand.TargetKWh, curve.Average(), kwpMax)

	return e.assemble(curve, demand, decision, model.SourceManual)
}

// SegmentInput is a roof facet from the building-insights service. Dataset
// may be nil when no climatology could be obtained.
type SegmentInput struct {
	Segment     model.SolarSegment
	Bill        model.BillInput
	Dataset     []model.MonthlyIrradianceSample
	LatitudeDeg float64
}

// ComputeSegment estimates a building-insights segment. The yield curve
// comes from, in order: the segment's own energy figures normalized per kWp,
// the transposition model over Dataset, or twelve zero months.
func (e *Engine) ComputeSegment(in SegmentInput) model.Result {
	demand := sizing.ResolveDemand(in.Bill, e.params)

	kwpMax := e.segmentCeiling(in.Segment)
	curve := e.segmentCurve(in, kwpMax)
	decision := sizing.Dimension(demand.TargetKWh, curve.Average(), kwpMax)

	return e.assemble(curve, demand, decision, model.SourceSolarAPI)
}

// SegmentYield returns the per-kWp curve ComputeSegment would use for the
// segment, without dimensioning it.
func (e *Engine) SegmentYield(seg model.SolarSegment, dataset []model.MonthlyIrradianceSample, latDeg float64) transposition.YieldCurve {
	in := SegmentInput{Segment: seg, Dataset: dataset, LatitudeDeg: latDeg}
	return e.segmentCurve(in, e.segmentCeiling(seg))
}

func (e *Engine) segmentCeiling(seg model.SolarSegment) float64 {
	if area := seg.UsefulAreaM2(); area > 0 {
		return sizing.CapacityCeiling(area, e.params)
	}
	return math.Inf(1)
}

// PlaneYield runs the transposition model for arbitrary angles.
func (e *Engine) PlaneYield(dataset []model.MonthlyIrradianceSample, latDeg float64, angles model.Angles) transposition.YieldCurve {
	return transposition.Transpose(transposition.Inputs{
		Dataset:          dataset,
		LatitudeDeg:      latDeg,
		Angles:           angles,
		Albedo:           e.params.Albedo,
		PerformanceRatio: e.params.PerformanceRatio,
	})
}

func (e *Engine) segmentCurve(in SegmentInput, kwpMax float64) transposition.YieldCurve {
	baseKwp := in.Segment.RecommendedSystemKw
	if baseKwp <= 0 {
		baseKwp = kwpMax
	}

	// Energy figures are only usable when they can be normalized to a finite size.
	if energy := in.Segment.ReportedMonthlyEnergy(); energy != nil && model.IsPositive(baseKwp) {
		return e.curveFromEnergy(energy, baseKwp, in.Dataset)
	}

	if in.Dataset != nil {
		return e.PlaneYield(in.Dataset, in.LatitudeDeg, in.Segment.Angles())
	}

	return zeroCurve()
}

// curveFromEnergy inverts the service's energy figures into a per-kWp curve
// so the estimate can be re-dimensioned to a different size.
func (e *Engine) curveFromEnergy(energy []float64, baseKwp float64, dataset []model.MonthlyIrradianceSample) transposition.YieldCurve {
	pr := e.params.PerformanceRatio
	if pr <= 0 {
		pr = 1
	}
	curve := zeroCurve()
	for i, kwh := range energy {
		if kwh > 0 {
			curve.SpecificYield[i] = kwh / baseKwp
		}
		curve.HPOA[i] = curve.SpecificYield[i] / pr
		if i < len(dataset) {
			curve.Months[i] = dataset[i].Month
		}
	}
	return curve
}

func zeroCurve() transposition.YieldCurve {
	n := model.MonthsPerYear
	return transposition.YieldCurve{
		Months:        make([]string, n),
		GHI:           make([]float64, n),
		DHI:           make([]float64, n),
		DNI:           make([]float64, n),
		HPOA:          make([]float64, n),
		SpecificYield: make([]float64, n),
	}
}

func monthLabel(curve transposition.YieldCurve, i int) string {
	if i < len(curve.Months) && curve.Months[i] != "" {
		return curve.Months[i]
	}
	return fmt.Sprintf("M%d", i+1)
}

func (e *Engine) assemble(curve transposition.YieldCurve, demand sizing.Demand, d sizing.Decision, source model.DataSource) model.Result {
	monthly := make([]model.MonthResult, 0, curve.Len())
	annualEnergy := 0.0
	annualSavings := 0.0

	for i, yf := range curve.SpecificYield {
		energy := yf * d.Kwp
		savings := energy * demand.TariffBRLkWh
		delta := energy * e.params.UncertaintyPct

		monthly = append(monthly, model.MonthResult{
			Month:           monthLabel(curve, i),
			GHI:             curve.GHI[i],
			DHI:             curve.DHI[i],
			DNI:             curve.DNI[i],
			HPOA:            curve.HPOA[i],
			SpecificYield:   yf,
			EnergyKWh:       energy,
			SavingsBRL:      savings,
			UncertaintyLow:  math.Max(energy-delta, 0),
			UncertaintyHigh: energy + delta,
		})
		annualEnergy += energy
		annualSavings += savings
	}

	summary := model.YearSummary{
		Kwp:                   d.Kwp,
		KwpMax:                d.KwpMax,
		AnnualGenerationKWh:   annualEnergy,
		AnnualSavingsBRL:      annualSavings,
		TariffApplied:         demand.TariffBRLkWh,
		CompensationTargetPct: demand.CompensationTargetPct,
	}
	if n := len(monthly); n > 0 {
		summary.AvgMonthlyGenerationKWh = annualEnergy / float64(n)
		summary.MonthlySavingsBRL = annualSavings / float64(n)
	}

	return model.Result{
		Summary:            summary,
		Monthly:            monthly,
		DimensioningCapped: d.Capped,
		Source:             source,
	}
}
