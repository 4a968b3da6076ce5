// Package geo holds the angle conventions and roof-outline geometry shared by
// the estimator.
//
// Azimuths come in two conventions:
//   - compass: bearing from true North, clockwise (0=N, 90=E, 180=S, 270=W)
//   - solar:   bearing from South, positive towards West (used by the transposition formula)
package geo

import "math"

const deg2rad = math.Pi / 180

func ToRadians(deg float64) float64 { return deg * deg2rad }

// NormalizeAzimuth folds any angle into [0,360). Values already in range are
// returned unchanged.
func NormalizeAzimuth(deg float64) float64 {
	n := math.Mod(deg, 360)
	if n < 0 {
		n += 360
	}
	// Tiny negatives round up to exactly 360.
	if n >= 360 {
		n -= 360
	}
	return n
}

// CompassToSolarAzimuth converts a bearing from North to the from-South convention.
func CompassToSolarAzimuth(deg float64) float64 {
	return NormalizeAzimuth(NormalizeAzimuth(deg) - 180)
}

// SolarToCompassAzimuth is the inverse of CompassToSolarAzimuth.
func SolarToCompassAzimuth(deg float64) float64 {
	return NormalizeAzimuth(NormalizeAzimuth(deg) + 180)
}
