// Package transposition converts monthly horizontal irradiation into
// plane-of-array irradiation and specific yield.
//
// Geometry is evaluated once per month at solar noon (hour angle 0) on a
// representative day, and the resulting beam tilt factor is applied to the
// whole day's beam irradiation. Diffuse is treated as isotropic and the
// ground as a Lambertian reflector (Liu-Jordan).
package transposition

import (
	"math"

	"pv-estimator/internal/geo"
	"pv-estimator/internal/model"

	"gonum.org/v1/gonum/floats"
)

// DaysInMonth uses a non-leap February.
var DaysInMonth = [model.MonthsPerYear]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// representativeDay is the day-of-year used for each month's declination.
var representativeDay = [model.MonthsPerYear]int{17, 47, 75, 105, 135, 162, 198, 228, 258, 288, 318, 344}

// Declination returns the solar declination (radians) for month index m (0=January).
func Declination(m int) float64 {
	day := float64(representativeDay[m])
	return geo.ToRadians(23.45) * math.Sin(geo.ToRadians(360.0/365.0*(day-81)))
}

// cosIncidence is the cosine of the angle between the beam and the surface
// normal for a surface of tilt beta and solar azimuth gamma (all radians).
func cosIncidence(lat, decl, beta, gamma, hourAngle float64) float64 {
	sinLat, cosLat := math.Sincos(lat)
	sinDec, cosDec := math.Sincos(decl)
	sinBeta, cosBeta := math.Sincos(beta)
	sinGamma, cosGamma := math.Sincos(gamma)
	sinHour, cosHour := math.Sincos(hourAngle)

	return sinDec*sinLat*cosBeta -
		sinDec*cosLat*sinBeta*cosGamma +
		cosDec*cosLat*cosBeta*cosHour +
		cosDec*sinLat*sinBeta*cosGamma*cosHour +
		cosDec*sinBeta*sinGamma*sinHour
}

func cosZenith(lat, decl, hourAngle float64) float64 {
	return math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(hourAngle)
}

// TiltFactor is the noon beam ratio Rb = cosθ/cosθz, floored at 0.
// It is 0 when the sun is at or below the horizon at noon.
func TiltFactor(lat, decl, beta, gammaSolar float64) float64 {
	const noon = 0.0
	cz := cosZenith(lat, decl, noon)
	if cz <= 0 {
		return 0
	}
	return math.Max(cosIncidence(lat, decl, beta, gammaSolar, noon)/cz, 0)
}

// Inputs to Transpose. Angles.GammaDeg is a compass bearing.
type Inputs struct {
	Dataset          []model.MonthlyIrradianceSample
	LatitudeDeg      float64
	Angles           model.Angles
	Albedo           float64
	PerformanceRatio float64
}

// YieldCurve holds per-month values; irradiation totals are kWh/m²/month and
// SpecificYield is kWh/kWp/month.
type YieldCurve struct {
	Months        []string
	GHI           []float64
	DHI           []float64
	DNI           []float64
	HPOA          []float64
	SpecificYield []float64
}

// Len is the number of months in the curve.
func (y YieldCurve) Len() int { return len(y.SpecificYield) }

// Annual is the sum of specific yield over the curve.
func (y YieldCurve) Annual() float64 {
	if len(y.SpecificYield) == 0 {
		return 0
	}
	return floats.Sum(y.SpecificYield)
}

// Average is the mean monthly specific yield, 0 for an empty curve.
func (y YieldCurve) Average() float64 {
	if len(y.SpecificYield) == 0 {
		return 0
	}
	return y.Annual() / float64(len(y.SpecificYield))
}

// Transpose runs the model over the dataset in order. Samples past the
// twelfth are ignored.
func Transpose(in Inputs) YieldCurve {
	n := len(in.Dataset)
	if n > model.MonthsPerYear {
		n = model.MonthsPerYear
	}

	beta := geo.ToRadians(in.Angles.BetaDeg)
	gammaSolar := geo.ToRadians(geo.CompassToSolarAzimuth(in.Angles.GammaDeg))
	lat := geo.ToRadians(in.LatitudeDeg)
	cosBeta := math.Cos(beta)
	skyView := (1 + cosBeta) / 2
	groundView := (1 - cosBeta) / 2

	out := YieldCurve{
		Months:        make([]string, n),
		GHI:           make([]float64, n),
		DHI:           make([]float64, n),
		DNI:           make([]float64, n),
		HPOA:          make([]float64, n),
		SpecificYield: make([]float64, n),
	}

	for m := 0; m < n; m++ {
		s := in.Dataset[m]
		days := float64(DaysInMonth[m])
		rb := TiltFactor(lat, Declination(m), beta, gammaSolar)

		beam := math.Max(s.GHI-s.DHI, 0)
		hpoaDaily := beam*rb + s.DHI*skyView + in.Albedo*s.GHI*groundView
		hpoa := hpoaDaily * days

		out.Months[m] = s.Month
		out.GHI[m] = s.GHI * days
		out.DHI[m] = s.DHI * days
		out.DNI[m] = s.DNI * days
		out.HPOA[m] = hpoa
		out.SpecificYield[m] = hpoa * in.PerformanceRatio
	}
	return out
}
