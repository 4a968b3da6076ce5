package model

// SolarSegment is one roof facet reported by the building-insights service.
// Every energy/area field is optional; zero or nil means "not reported".
type SolarSegment struct {
	SegmentID           string    `json:"segment_id"`
	PitchDegrees        float64   `json:"pitch_degrees"`
	AzimuthDegrees      float64   `json:"azimuth_degrees"` // from North
	GroundAreaMeters2   float64   `json:"ground_area_meters2,omitempty"`
	MaxArrayAreaMeters2 float64   `json:"max_array_area_meters2,omitempty"`
	MonthlyEnergyKwh    []float64 `json:"monthly_energy_kwh,omitempty"`
	AnnualEnergyKwh     float64   `json:"annual_energy_kwh,omitempty"`
	RecommendedSystemKw float64   `json:"recommended_system_kw,omitempty"`
}

func (s SolarSegment) Angles() Angles {
	return Angles{BetaDeg: s.PitchDegrees, GammaDeg: s.AzimuthDegrees}
}

// UsefulAreaM2 prefers the service's own array area, then the usable share
// of the ground footprint, then zero.
func (s SolarSegment) UsefulAreaM2() float64 {
	if s.MaxArrayAreaMeters2 > 0 {
		return s.MaxArrayAreaMeters2
	}
	if s.GroundAreaMeters2 > 0 {
		return UsableArea(s.GroundAreaMeters2)
	}
	return 0
}

// ReportedMonthlyEnergy returns the service's monthly energy curve: the
// 12-value series when present, else the annual total spread evenly, else nil.
func (s SolarSegment) ReportedMonthlyEnergy() []float64 {
	if len(s.MonthlyEnergyKwh) == MonthsPerYear {
		out := make([]float64, MonthsPerYear)
		copy(out, s.MonthlyEnergyKwh)
		return out
	}
	if s.AnnualEnergyKwh > 0 {
		out := make([]float64, MonthsPerYear)
		for i := range out {
			out[i] = s.AnnualEnergyKwh / MonthsPerYear
		}
		return out
	}
	return nil
}

// CoverageQuality is the imagery quality level reported for a building.
type CoverageQuality string

const (
	CoverageHigh    CoverageQuality = "HIGH"
	CoverageMedium  CoverageQuality = "MEDIUM"
	CoverageBase    CoverageQuality = "BASE"
	CoverageLow     CoverageQuality = "LOW"
	CoverageNone    CoverageQuality = "NONE"
	CoverageUnknown CoverageQuality = "UNKNOWN"
)

// BuildingInsights is the normalized building-insights lookup result.
type BuildingInsights struct {
	Lat             float64         `json:"lat"`
	Lng             float64         `json:"lng"`
	CoverageQuality CoverageQuality `json:"coverage_quality"`
	Segments        []SolarSegment  `json:"segments"`
}

// Segment finds a segment by id.
func (b BuildingInsights) Segment(id string) (SolarSegment, bool) {
	for _, s := range b.Segments {
		if s.SegmentID == id {
			return s, true
		}
	}
	return SolarSegment{}, false
}

// DefaultSegment picks the segment with the largest reported area
// (array area, else ground area). The first one wins ties.
func (b BuildingInsights) DefaultSegment() (SolarSegment, bool) {
	if len(b.Segments) == 0 {
		return SolarSegment{}, false
	}
	area := func(s SolarSegment) float64 {
		if s.MaxArrayAreaMeters2 > 0 {
			return s.MaxArrayAreaMeters2
		}
		return s.GroundAreaMeters2
	}
	best := b.Segments[0]
	for _, s := range b.Segments[1:] {
		if area(s) > area(best) {
			best = s
		}
	}
	return best, true
}
