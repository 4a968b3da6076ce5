package models

import (
	"pv-estimator/internal/geo"
	"pv-estimator/internal/model"
)

// ManualEstimateRequest represents the request body for a drawn-roof estimate
type ManualEstimateRequest struct {
	// Location is optional when the polygon is drawn; the roof centroid is used then.
	Location *geo.LatLng     `json:"location,omitempty"`
	Polygon  []geo.LatLng    `json:"polygon"`
	Angles   *model.Angles   `json:"angles,omitempty"` // default: configured tilt/azimuth
	Bill     model.BillInput `json:"bill"`
	// Dataset is fetched from the irradiance provider when omitted.
	Dataset []model.MonthlyIrradianceSample `json:"dataset,omitempty"`
}

// SegmentEstimateRequest represents the request body for a building-insights
// segment estimate. Either Segment or SegmentID (looked up at Location) is used.
type SegmentEstimateRequest struct {
	Location  *geo.LatLng                     `json:"location,omitempty"`
	Segment   *model.SolarSegment             `json:"segment,omitempty"`
	SegmentID string                          `json:"segment_id,omitempty"`
	Bill      model.BillInput                 `json:"bill"`
	Dataset   []model.MonthlyIrradianceSample `json:"dataset,omitempty"`
	// SkipDataset estimates from the segment's own energy figures only.
	SkipDataset bool `json:"skip_dataset,omitempty"`
}

// LocationQuery binds ?lat=&lng=
type LocationQuery struct {
	Lat *float64 `form:"lat"`
	Lng *float64 `form:"lng"`
}

// OrientationQuery binds the orientation sweep parameters
type OrientationQuery struct {
	LocationQuery
	TiltStep    float64 `form:"tilt_step,omitempty"`    // default: 5
	AzimuthStep float64 `form:"azimuth_step,omitempty"` // default: 45
	Limit       int     `form:"limit,omitempty"`        // 0 = all
}
