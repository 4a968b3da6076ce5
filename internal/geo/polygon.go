package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// metersPerDegree is the flat-earth scale used by PlanarArea.
const metersPerDegree = 111139

// LatLng is a geographic point in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func (p LatLng) orb() orb.Point { return orb.Point{p.Lng, p.Lat} }

func ring(path []LatLng) orb.Ring {
	r := make(orb.Ring, 0, len(path)+1)
	for _, p := range path {
		r = append(r, p.orb())
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

// SphericalArea returns the area in m² enclosed by path on the WGS84 sphere.
// Fewer than three points enclose nothing.
func SphericalArea(path []LatLng) float64 {
	if len(path) < 3 {
		return 0
	}
	return math.Abs(geo.Area(ring(path)))
}

// PlanarArea is the shoelace area with a constant meters-per-degree scale.
// Cheaper and less accurate than SphericalArea away from the equator.
func PlanarArea(path []LatLng) float64 {
	if len(path) < 3 {
		return 0
	}
	area := 0.0
	for i := range path {
		p1 := path[i]
		p2 := path[(i+1)%len(path)]
		area += (p2.Lng - p1.Lng) * (p2.Lat + p1.Lat)
	}
	return math.Abs(area * metersPerDegree * metersPerDegree * 0.5)
}

// Centroid is the arithmetic mean of the vertices; (0,0) for an empty path.
func Centroid(path []LatLng) LatLng {
	if len(path) == 0 {
		return LatLng{}
	}
	var sum LatLng
	for _, p := range path {
		sum.Lat += p.Lat
		sum.Lng += p.Lng
	}
	n := float64(len(path))
	return LatLng{Lat: sum.Lat / n, Lng: sum.Lng / n}
}

// Offset moves origin by the given meters towards North and East.
func Offset(origin LatLng, metersNorth, metersEast float64) LatLng {
	p := origin.orb()
	if metersNorth != 0 {
		bearing := 0.0
		if metersNorth < 0 {
			bearing = 180
		}
		p = geo.PointAtBearingAndDistance(p, bearing, math.Abs(metersNorth))
	}
	if metersEast != 0 {
		bearing := 90.0
		if metersEast < 0 {
			bearing = 270
		}
		p = geo.PointAtBearingAndDistance(p, bearing, math.Abs(metersEast))
	}
	return LatLng{Lat: p[1], Lng: p[0]}
}

// SquareAround returns a square outline of side sideM centered on center,
// wound NW, NE, SE, SW. It is the starting polygon offered for manual drawing.
func SquareAround(center LatLng, sideM float64) []LatLng {
	h := sideM / 2
	return []LatLng{
		Offset(center, h, -h),
		Offset(center, h, h),
		Offset(center, -h, h),
		Offset(center, -h, -h),
	}
}
