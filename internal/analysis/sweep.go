package analysis

import (
	"math"
	"sort"

	"pv-estimator/internal/estimate"
	"pv-estimator/internal/geo"
	"pv-estimator/internal/model"
)

// Grid bounds an orientation sweep. Tilt is inclusive on both ends; azimuth
// is a compass bearing and AzimuthMax is exclusive when the span is a full turn.
type Grid struct {
	TiltMin, TiltMax, TiltStep          float64
	AzimuthMin, AzimuthMax, AzimuthStep float64
}

// DefaultGrid sweeps tilts 0..40 in 5° steps against all 8 compass points.
func DefaultGrid() Grid {
	return Grid{TiltMin: 0, TiltMax: 40, TiltStep: 5, AzimuthMin: 0, AzimuthMax: 360, AzimuthStep: 45}
}

type OrientationYield struct {
	Angles      model.Angles `json:"angles"`
	AnnualYield float64      `json:"annual_yield_kwh_kwp"`
	// RelativeToBest is AnnualYield / best AnnualYield (0 when the best is 0).
	RelativeToBest float64 `json:"relative_to_best"`
}

// SweepOrientations evaluates every grid orientation at a location and
// returns them best first.
func SweepOrientations(engine *estimate.Engine, dataset []model.MonthlyIrradianceSample, latDeg float64, g Grid) []OrientationYield {
	tilts := steps(g.TiltMin, g.TiltMax, g.TiltStep, true)
	azimuths := steps(g.AzimuthMin, g.AzimuthMax, g.AzimuthStep, g.AzimuthMax-g.AzimuthMin < 360)

	out := make([]OrientationYield, 0, len(tilts)*len(azimuths))
	for _, beta := range tilts {
		for _, gamma := range azimuths {
			angles := model.Angles{BetaDeg: beta, GammaDeg: geo.NormalizeAzimuth(gamma)}
			curve := engine.PlaneYield(dataset, latDeg, angles)
			out = append(out, OrientationYield{Angles: angles, AnnualYield: curve.Annual()})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnnualYield > out[j].AnnualYield
	})
	if len(out) > 0 && out[0].AnnualYield > 0 {
		best := out[0].AnnualYield
		for i := range out {
			out[i].RelativeToBest = out[i].AnnualYield / best
		}
	}
	return out
}

func steps(lo, hi, step float64, inclusive bool) []float64 {
	if step <= 0 || hi < lo {
		return []float64{lo}
	}
	n := int(math.Floor((hi-lo)/step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		v := lo + float64(i)*step
		if !inclusive && v >= hi-1e-9 {
			break
		}
		out = append(out, v)
	}
	return out
}
