package model

import (
	"errors"

	"pv-estimator/internal/geo"
)

// UsableAreaFraction is the share of a roof's footprint that can host modules
// once setbacks and walkways are accounted for.
const UsableAreaFraction = 0.7

// UsableArea applies the usable-fraction policy to a gross roof area.
// Roof polygons and building-insights ground areas both go through here.
func UsableArea(grossM2 float64) float64 {
	return grossM2 * UsableAreaFraction
}

// RoofSelection is a manually drawn roof outline. Build it with
// BuildRoofSelection and rebuild it whenever the outline changes.
type RoofSelection struct {
	Polygon      []geo.LatLng `json:"polygon"`
	AreaM2       float64      `json:"area_m2"`
	UsableAreaM2 float64      `json:"usable_area_m2"`
	Centroid     geo.LatLng   `json:"centroid"`
	HasPolygon   bool         `json:"has_polygon"`
}

func BuildRoofSelection(path []geo.LatLng) RoofSelection {
	polygon := make([]geo.LatLng, len(path))
	copy(polygon, path)

	area := geo.SphericalArea(polygon)
	return RoofSelection{
		Polygon:      polygon,
		AreaM2:       area,
		UsableAreaM2: UsableArea(area),
		Centroid:     geo.Centroid(polygon),
		HasPolygon:   len(polygon) >= 3,
	}
}

func (r RoofSelection) Validate() error {
	if !r.HasPolygon {
		return errors.New("roof polygon needs at least 3 points")
	}
	return nil
}
