// Package analysis compares candidate roof segments and module orientations
// by annual specific yield.
package analysis

import (
	"sort"

	"pv-estimator/internal/estimate"
	"pv-estimator/internal/model"
)

// RankedSegment is a segment summary you can use for the segment picker.
// It does not depend on a bill: yields are per installed kWp.
type RankedSegment struct {
	Rank         int                `json:"rank"`
	Segment      model.SolarSegment `json:"segment"`
	UsefulAreaM2 float64            `json:"useful_area_m2"`

	// AnnualYield is kWh per kWp per year; MonthlyYield its 12-month breakdown.
	AnnualYield  float64   `json:"annual_yield_kwh_kwp"`
	MonthlyYield []float64 `json:"monthly_yield_kwh_kwp"`
}

// RankSegments computes each segment's yield curve the way a segment
// estimate would and sorts descending by annual yield, larger useful area
// breaking ties.
func RankSegments(engine *estimate.Engine, segments []model.SolarSegment, dataset []model.MonthlyIrradianceSample, latDeg float64) []RankedSegment {
	out := make([]RankedSegment, 0, len(segments))
	for _, seg := range segments {
		curve := engine.SegmentYield(seg, dataset, latDeg)
		out = append(out, RankedSegment{
			Segment:      seg,
			UsefulAreaM2: seg.UsefulAreaM2(),
			AnnualYield:  curve.Annual(),
			MonthlyYield: curve.SpecificYield,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AnnualYield != out[j].AnnualYield {
			return out[i].AnnualYield > out[j].AnnualYield
		}
		return out[i].UsefulAreaM2 > out[j].UsefulAreaM2
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
