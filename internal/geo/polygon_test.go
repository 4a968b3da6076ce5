package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphericalArea_Square(t *testing.T) {
	center := LatLng{Lat: -23.5, Lng: -46.6}
	square := SquareAround(center, 10)
	require.Len(t, square, 4)

	assert.InDelta(t, 100, SphericalArea(square), 1.5, "10 m square should enclose ~100 m²")
	assert.InDelta(t, SphericalArea(square), PlanarArea(square), 5)
}

func TestArea_Degenerate(t *testing.T) {
	two := []LatLng{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}}
	assert.Zero(t, SphericalArea(two))
	assert.Zero(t, PlanarArea(two))
	assert.Zero(t, SphericalArea(nil))
}

func TestArea_WindingIndependent(t *testing.T) {
	square := SquareAround(LatLng{Lat: 10, Lng: 10}, 20)
	reversed := []LatLng{square[3], square[2], square[1], square[0]}
	assert.InDelta(t, SphericalArea(square), SphericalArea(reversed), 1e-6)
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, LatLng{}, Centroid(nil))

	path := []LatLng{
		{Lat: -23.5, Lng: -46.6},
		{Lat: -23.5005, Lng: -46.6},
		{Lat: -23.5005, Lng: -46.6005},
		{Lat: -23.5, Lng: -46.6005},
	}
	c := Centroid(path)
	assert.InDelta(t, -23.50025, c.Lat, 1e-9)
	assert.InDelta(t, -46.60025, c.Lng, 1e-9)
}

func TestOffset(t *testing.T) {
	origin := LatLng{Lat: 0, Lng: 0}
	north := Offset(origin, 1000, 0)
	assert.Greater(t, north.Lat, 0.0)
	assert.InDelta(t, 0, north.Lng, 1e-9)

	southWest := Offset(origin, -1000, -1000)
	assert.Less(t, southWest.Lat, 0.0)
	assert.Less(t, southWest.Lng, 0.0)

	assert.Equal(t, origin, Offset(origin, 0, 0))
}
