package sizing

import (
	"math"
	"testing"

	"pv-estimator/internal/model"

	"github.com/stretchr/testify/assert"
)

var params = model.SolarParams{
	PerformanceRatio:             0.8,
	Albedo:                       0.2,
	KwpPerSquareMeter:            0.2,
	PanelWp:                      550,
	PanelAreaM2:                  2,
	DefaultTariffBRLkWh:          0.75,
	CompensationTargetDefaultPct: 90,
	UncertaintyPct:               0.12,
}

func TestResolveTariff(t *testing.T) {
	tests := []struct {
		name string
		bill model.BillInput
		want float64
	}{
		{"explicit tariff wins", model.BillInput{MonthlySpendBRL: 500, TariffBRLkWh: 1.2, MonthlyConsumptionKWh: 250}, 1.2},
		{"spend over consumption", model.BillInput{MonthlySpendBRL: 500, MonthlyConsumptionKWh: 250}, 2},
		{"default", model.BillInput{MonthlySpendBRL: 500}, 0.75},
		{"no spend ignores consumption", model.BillInput{MonthlyConsumptionKWh: 250}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ResolveTariff(tt.bill, params), 1e-12)
		})
	}
}

func TestResolveConsumption(t *testing.T) {
	assert.Equal(t, 300.0, ResolveConsumption(model.BillInput{MonthlySpendBRL: 500, MonthlyConsumptionKWh: 300}, 1))
	assert.InDelta(t, 400.0, ResolveConsumption(model.BillInput{MonthlySpendBRL: 500}, 1.25), 1e-12)
	assert.Zero(t, ResolveConsumption(model.BillInput{MonthlySpendBRL: 500}, 0))
	assert.Zero(t, ResolveConsumption(model.BillInput{}, 1))
}

func TestResolveDemand(t *testing.T) {
	d := ResolveDemand(model.BillInput{MonthlySpendBRL: 600, TariffBRLkWh: 1.2}, params)
	assert.InDelta(t, 500, d.ConsumptionKWh, 1e-9)
	assert.Equal(t, 90.0, d.CompensationTargetPct, "zero target falls back to default")
	assert.InDelta(t, 450, d.TargetKWh, 1e-9)

	d = ResolveDemand(model.BillInput{MonthlySpendBRL: 600, TariffBRLkWh: 1.2, CompensationTargetPct: 50}, params)
	assert.InDelta(t, 250, d.TargetKWh, 1e-9)
}

func TestCapacityCeiling(t *testing.T) {
	t.Run("areal limit", func(t *testing.T) {
		p := params
		p.PanelWp, p.PanelAreaM2 = 0, 0
		assert.InDelta(t, 16.8, CapacityCeiling(84, p), 1e-9)
	})

	t.Run("panel limit lower than areal", func(t *testing.T) {
		p := params
		p.PanelWp = 300 // 0.15 kWp/m² < 0.2
		assert.InDelta(t, 42*0.3, CapacityCeiling(84, p), 1e-9)
	})

	t.Run("areal limit lower than panel", func(t *testing.T) {
		assert.InDelta(t, 16.8, CapacityCeiling(84, params), 1e-9)
	})

	t.Run("smaller than one panel", func(t *testing.T) {
		assert.Zero(t, CapacityCeiling(1.5, params))
	})

	t.Run("no area", func(t *testing.T) {
		assert.Zero(t, CapacityCeiling(0, params))
		assert.Zero(t, CapacityCeiling(-3, params))
	})
}

func TestCapacityCeiling_Monotonic(t *testing.T) {
	for _, p := range []model.SolarParams{params, {KwpPerSquareMeter: 0.2, PanelWp: 300, PanelAreaM2: 2}, {KwpPerSquareMeter: 0.18}} {
		prev := 0.0
		for area := 0.0; area <= 200; area += 0.05 {
			got := CapacityCeiling(area, p)
			assert.GreaterOrEqual(t, got, prev, "area=%v", area)
			prev = got
		}
	}
}

func TestDimension(t *testing.T) {
	tests := []struct {
		name       string
		target     float64
		avgYield   float64
		kwpMax     float64
		wantKwp    float64
		wantCapped bool
	}{
		{"within ceiling", 450, 150, 16.8, 3, false},
		{"capped", 3000, 150, 16.8, 16.8, true},
		{"exactly at ceiling", 1500, 150, 10, 10, false},
		{"zero yield", 450, 0, 16.8, 0, false},
		{"zero ceiling", 450, 150, 0, 0, false},
		{"unconstrained", 450, 150, math.Inf(1), 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dimension(tt.target, tt.avgYield, tt.kwpMax)
			assert.InDelta(t, tt.wantKwp, d.Kwp, 1e-9)
			assert.Equal(t, tt.wantCapped, d.Capped)
			assert.LessOrEqual(t, d.Kwp, tt.kwpMax)
			assert.Equal(t, d.Capped, d.KwpMax > 0 && d.TargetKwp > d.KwpMax)
		})
	}
}
