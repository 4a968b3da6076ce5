package models

import (
	"time"

	"pv-estimator/internal/analysis"
	"pv-estimator/internal/config"
	"pv-estimator/internal/model"
)

// EstimateResponse represents a computed, retrievable estimate
type EstimateResponse struct {
	ID            string       `json:"id"`
	CreatedAt     time.Time    `json:"created_at"`
	Result        model.Result `json:"result"`
	Angles        model.Angles `json:"angles"`
	SegmentID     string       `json:"segment_id,omitempty"`
	DatasetOrigin string       `json:"dataset_origin,omitempty"`
	Links         ReportLinks  `json:"links"`
}

// ReportLinks points at the export endpoints for an estimate
type ReportLinks struct {
	Self string `json:"self"`
	PDF  string `json:"pdf"`
	XLSX string `json:"xlsx"`
}

// InsightsResponse carries the building lookup with segments ranked best first
type InsightsResponse struct {
	Insights         model.BuildingInsights   `json:"insights"`
	Ranked           []analysis.RankedSegment `json:"ranked"`
	DefaultSegmentID string                   `json:"default_segment_id,omitempty"`
	DatasetOrigin    string                   `json:"dataset_origin,omitempty"`
}

// OrientationResponse is the ranked orientation sweep for a location
type OrientationResponse struct {
	Orientations  []analysis.OrientationYield `json:"orientations"`
	DatasetOrigin string                      `json:"dataset_origin,omitempty"`
}

// ParamsResponse exposes the effective engine parameters and UI defaults
type ParamsResponse struct {
	Params          model.SolarParams `json:"params"`
	DefaultAngles   model.Angles      `json:"default_angles"`
	TiltRangeDeg    config.RangeDeg   `json:"tilt_range_deg"`
	AzimuthRangeDeg config.RangeDeg   `json:"azimuth_range_deg"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
