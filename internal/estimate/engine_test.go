package estimate

import (
	"math"
	"testing"

	"pv-estimator/internal/geo"
	"pv-estimator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = model.SolarParams{
	PerformanceRatio:             0.8,
	Albedo:                       0.2,
	KwpPerSquareMeter:            0.2,
	PanelWp:                      550,
	PanelAreaM2:                  2,
	DefaultTariffBRLkWh:          0.75,
	CompensationTargetDefaultPct: 90,
	UncertaintyPct:               0.12,
}

func baseDataset() []model.MonthlyIrradianceSample {
	labels := []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}
	out := make([]model.MonthlyIrradianceSample, model.MonthsPerYear)
	for i := range out {
		out[i] = model.MonthlyIrradianceSample{Month: labels[i], GHI: 5 + float64(i)*0.1, DHI: 2.5, DNI: 3}
	}
	return out
}

func testRoof() model.RoofSelection {
	return model.RoofSelection{
		Polygon: []geo.LatLng{
			{Lat: -23.5, Lng: -46.6},
			{Lat: -23.5005, Lng: -46.6},
			{Lat: -23.5005, Lng: -46.6005},
			{Lat: -23.5, Lng: -46.6005},
		},
		AreaM2:       120,
		UsableAreaM2: 84,
		Centroid:     geo.LatLng{Lat: -23.50025, Lng: -46.60025},
		HasPolygon:   true,
	}
}

func manualInput(spend float64) ManualInput {
	return ManualInput{
		Roof:    testRoof(),
		Angles:  model.Angles{BetaDeg: 18, GammaDeg: 0},
		Bill:    model.BillInput{MonthlySpendBRL: spend, CompensationTargetPct: 100},
		Dataset: baseDataset(),
	}
}

func assertWellFormed(t *testing.T, res model.Result) {
	t.Helper()
	require.Len(t, res.Monthly, model.MonthsPerYear)
	assert.LessOrEqual(t, res.Summary.Kwp, res.Summary.KwpMax)
	sum := 0.0
	for _, m := range res.Monthly {
		assert.GreaterOrEqual(t, m.EnergyKWh, 0.0)
		assert.GreaterOrEqual(t, m.UncertaintyLow, 0.0)
		assert.LessOrEqual(t, m.UncertaintyLow, m.EnergyKWh)
		assert.GreaterOrEqual(t, m.UncertaintyHigh, m.EnergyKWh)
		sum += m.EnergyKWh
	}
	assert.InDelta(t, sum, res.Summary.AnnualGenerationKWh, 1e-6)
	assert.InDelta(t, sum/12, res.Summary.AvgMonthlyGenerationKWh, 1e-6)
}

func TestComputeManual_ScenarioA(t *testing.T) {
	res := New(testParams).ComputeManual(manualInput(500))

	assertWellFormed(t, res)
	assert.Equal(t, model.SourceManual, res.Source)
	assert.False(t, res.DimensioningCapped)
	assert.Greater(t, res.Summary.Kwp, 0.0)
	assert.InDelta(t, 16.8, res.Summary.KwpMax, 1e-9)
	assert.InDelta(t, 0.75, res.Summary.TariffApplied, 1e-12)
	assert.Equal(t, 100.0, res.Summary.CompensationTargetPct)

	// Uncapped: generation matches the compensation target.
	assert.InDelta(t, 500/0.75, res.Summary.AvgMonthlyGenerationKWh, 1e-6)
	assert.InDelta(t, 500.0, res.Summary.MonthlySavingsBRL, 1e-6)

	for i, m := range res.Monthly {
		assert.Greater(t, m.EnergyKWh, 0.0, "month %d", i)
		assert.InDelta(t, m.EnergyKWh*0.88, m.UncertaintyLow, 1e-9)
		assert.InDelta(t, m.EnergyKWh*1.12, m.UncertaintyHigh, 1e-9)
		assert.InDelta(t, m.SpecificYield*res.Summary.Kwp, m.EnergyKWh, 1e-9)
	}
	assert.Equal(t, "Jan", res.Monthly[0].Month)
	assert.Equal(t, "Dez", res.Monthly[11].Month)
}

func TestComputeManual_ScenarioB_AreaLimited(t *testing.T) {
	res := New(testParams).ComputeManual(manualInput(2000))

	assertWellFormed(t, res)
	assert.True(t, res.DimensioningCapped)
	assert.Equal(t, res.Summary.KwpMax, res.Summary.Kwp)
}

func TestComputeManual_ScenarioD_ZeroDataset(t *testing.T) {
	in := manualInput(500)
	in.Dataset = make([]model.MonthlyIrradianceSample, model.MonthsPerYear)

	var res model.Result
	require.NotPanics(t, func() { res = New(testParams).ComputeManual(in) })

	assertWellFormed(t, res)
	assert.Zero(t, res.Summary.AnnualGenerationKWh)
	assert.Zero(t, res.Summary.Kwp)
	assert.False(t, res.DimensioningCapped)
	assert.Equal(t, "M1", res.Monthly[0].Month)
}

func TestComputeManual_NoRoof(t *testing.T) {
	in := manualInput(500)
	in.Roof = model.BuildRoofSelection(nil)

	res := New(testParams).ComputeManual(in)
	assertWellFormed(t, res)
	assert.Zero(t, res.Summary.KwpMax)
	assert.Zero(t, res.Summary.Kwp)
	assert.False(t, res.DimensioningCapped)
}

func TestComputeManual_DoesNotMutateInput(t *testing.T) {
	in := manualInput(500)
	before := baseDataset()
	_ = New(testParams).ComputeManual(in)
	assert.Equal(t, before, in.Dataset)
}

func TestComputeManual_Deterministic(t *testing.T) {
	e := New(testParams)
	assert.Equal(t, e.ComputeManual(manualInput(700)), e.ComputeManual(manualInput(700)))
}

func fullSegment() model.SolarSegment {
	monthly := make([]float64, 12)
	for i := range monthly {
		monthly[i] = 500
	}
	return model.SolarSegment{
		SegmentID:           "seg-1",
		PitchDegrees:        18,
		AzimuthDegrees:      10,
		GroundAreaMeters2:   100,
		MaxArrayAreaMeters2: 80,
		MonthlyEnergyKwh:    monthly,
		AnnualEnergyKwh:     6000,
		RecommendedSystemKw: 5,
	}
}

func TestComputeSegment_ScenarioC(t *testing.T) {
	bill := model.BillInput{MonthlySpendBRL: 500, TariffBRLkWh: 1.2, MonthlyConsumptionKWh: 400}
	e := New(testParams)

	res := e.ComputeSegment(SegmentInput{Segment: fullSegment(), Bill: bill, Dataset: baseDataset(), LatitudeDeg: -23.5})

	assertWellFormed(t, res)
	assert.Equal(t, model.SourceSolarAPI, res.Source)
	assert.False(t, res.DimensioningCapped)
	assert.InDelta(t, 16, res.Summary.KwpMax, 1e-9, "max array area 80 m² at 0.2 kWp/m²")
	// 500 kWh on 5 kWp = 100 kWh/kWp; target 400*0.9 = 360 kWh.
	assert.InDelta(t, 3.6, res.Summary.Kwp, 1e-9)
	for _, m := range res.Monthly {
		assert.InDelta(t, 100, m.SpecificYield, 1e-9)
		assert.InDelta(t, 125, m.HPOA, 1e-9)
		assert.InDelta(t, 360, m.EnergyKWh, 1e-9)
		assert.Zero(t, m.GHI)
	}
	assert.Equal(t, "Jan", res.Monthly[0].Month)

	// The service's energy scale changes kWp but not the energy delivered.
	doubled := fullSegment()
	for i := range doubled.MonthlyEnergyKwh {
		doubled.MonthlyEnergyKwh[i] = 1000
	}
	res2 := e.ComputeSegment(SegmentInput{Segment: doubled, Bill: bill, LatitudeDeg: -23.5})
	assert.InDelta(t, 1.8, res2.Summary.Kwp, 1e-9)
	assert.InDelta(t, res.Summary.AnnualGenerationKWh, res2.Summary.AnnualGenerationKWh, 1e-6)
	assert.Equal(t, "M1", res2.Monthly[0].Month)
}

func TestComputeSegment_AnnualOnly(t *testing.T) {
	seg := fullSegment()
	seg.MonthlyEnergyKwh = nil

	res := New(testParams).ComputeSegment(SegmentInput{Segment: seg, Bill: model.BillInput{MonthlySpendBRL: 300}})
	require.Len(t, res.Monthly, 12)
	for _, m := range res.Monthly {
		assert.InDelta(t, 6000.0/12/5, m.SpecificYield, 1e-9)
	}

	t.Run("no recommended size seeds from ceiling", func(t *testing.T) {
		seg.RecommendedSystemKw = 0
		res := New(testParams).ComputeSegment(SegmentInput{Segment: seg, Bill: model.BillInput{MonthlySpendBRL: 300}})
		for _, m := range res.Monthly {
			assert.InDelta(t, 500.0/16, m.SpecificYield, 1e-9)
		}
	})
}

func TestComputeSegment_FallsBackToTransposition(t *testing.T) {
	seg := model.SolarSegment{SegmentID: "s", PitchDegrees: 18, AzimuthDegrees: 0, GroundAreaMeters2: 120}
	bill := model.BillInput{MonthlySpendBRL: 500, CompensationTargetPct: 100}

	segRes := New(testParams).ComputeSegment(SegmentInput{Segment: seg, Bill: bill, Dataset: baseDataset(), LatitudeDeg: -23.50025})
	manRes := New(testParams).ComputeManual(manualInput(500))

	assertWellFormed(t, segRes)
	// Ground area 120 m² uses the same usable fraction as a 120 m² drawn roof.
	assert.InDelta(t, manRes.Summary.KwpMax, segRes.Summary.KwpMax, 1e-9)
	assert.InDelta(t, manRes.Summary.Kwp, segRes.Summary.Kwp, 1e-9)
	for i := range segRes.Monthly {
		assert.InDelta(t, manRes.Monthly[i].HPOA, segRes.Monthly[i].HPOA, 1e-9)
		assert.InDelta(t, manRes.Monthly[i].GHI, segRes.Monthly[i].GHI, 1e-9)
	}
}

func TestComputeSegment_NoDataAtAll(t *testing.T) {
	seg := model.SolarSegment{SegmentID: "s", PitchDegrees: 18, MaxArrayAreaMeters2: 40}

	var res model.Result
	require.NotPanics(t, func() {
		res = New(testParams).ComputeSegment(SegmentInput{Segment: seg, Bill: model.BillInput{MonthlySpendBRL: 500}})
	})
	assertWellFormed(t, res)
	assert.Zero(t, res.Summary.AnnualGenerationKWh)
	assert.Zero(t, res.Summary.Kwp)
	assert.Equal(t, "M12", res.Monthly[11].Month)
}

func TestComputeSegment_NoAreaIsUnconstrained(t *testing.T) {
	seg := model.SolarSegment{SegmentID: "s", PitchDegrees: 18, AnnualEnergyKwh: 6000}
	bill := model.BillInput{MonthlySpendBRL: 20000, TariffBRLkWh: 1}

	res := New(testParams).ComputeSegment(SegmentInput{Segment: seg, Bill: bill, Dataset: baseDataset(), LatitudeDeg: -23.5})

	assert.True(t, math.IsInf(res.Summary.KwpMax, 1))
	assert.True(t, res.Summary.Unconstrained())
	assert.False(t, res.DimensioningCapped)
	// Energy figures cannot be normalized against an infinite size, so the
	// dataset drives the curve and the full demand is met.
	assert.Greater(t, res.Monthly[0].GHI, 0.0)
	assert.InDelta(t, 20000*0.9, res.Summary.AvgMonthlyGenerationKWh, 1e-6)
}

func TestSegmentYield_MatchesComputeSegment(t *testing.T) {
	e := New(testParams)
	bill := model.BillInput{MonthlySpendBRL: 500, TariffBRLkWh: 1.2, MonthlyConsumptionKWh: 400}

	for name, seg := range map[string]model.SolarSegment{
		"energy figures": fullSegment(),
		"transposition":  {SegmentID: "t", PitchDegrees: 18, GroundAreaMeters2: 120},
	} {
		t.Run(name, func(t *testing.T) {
			curve := e.SegmentYield(seg, baseDataset(), -23.5)
			res := e.ComputeSegment(SegmentInput{Segment: seg, Bill: bill, Dataset: baseDataset(), LatitudeDeg: -23.5})
			require.Len(t, curve.SpecificYield, model.MonthsPerYear)
			for i, m := range res.Monthly {
				assert.InDelta(t, m.SpecificYield, curve.SpecificYield[i], 1e-9)
			}
		})
	}
}

func TestPlaneYield_MatchesComputeManual(t *testing.T) {
	e := New(testParams)
	in := manualInput(500)

	curve := e.PlaneYield(in.Dataset, in.Roof.Centroid.Lat, in.Angles)
	res := e.ComputeManual(in)
	for i, m := range res.Monthly {
		assert.InDelta(t, m.SpecificYield, curve.SpecificYield[i], 1e-9)
	}

	south := e.PlaneYield(in.Dataset, in.Roof.Centroid.Lat, model.Angles{BetaDeg: 18, GammaDeg: 180})
	assert.Less(t, south.Average(), curve.Average(), "south-facing loses yield in the southern hemisphere")
}

func TestComputeSegment_SmallerThanOneModule(t *testing.T) {
	seg := model.SolarSegment{
		SegmentID:           "dormer",
		PitchDegrees:        18,
		MaxArrayAreaMeters2: 1.5,
		AnnualEnergyKwh:     400,
		RecommendedSystemKw: 0.3,
	}

	res := New(testParams).ComputeSegment(SegmentInput{Segment: seg, Bill: model.BillInput{MonthlySpendBRL: 500}, Dataset: baseDataset(), LatitudeDeg: -23.5})

	assertWellFormed(t, res)
	assert.Zero(t, res.Summary.KwpMax, "no whole 2 m² module fits in 1.5 m²")
	assert.Zero(t, res.Summary.Kwp)
	assert.False(t, res.DimensioningCapped)
	assert.Zero(t, res.Summary.AnnualGenerationKWh)
	// The yield curve still comes from the segment's own figures.
	assert.InDelta(t, 400.0/12/0.3, res.Monthly[0].SpecificYield, 1e-9)
}
