package handlers

import (
	"fmt"
	"net/http"
	"time"

	"pv-estimator/internal/api/models"
	"pv-estimator/internal/config"
	"pv-estimator/internal/estimate"
	"pv-estimator/internal/geo"
	"pv-estimator/internal/log"
	"pv-estimator/internal/model"
	"pv-estimator/internal/observability/metrics"
	"pv-estimator/internal/report"

	"github.com/gin-gonic/gin"
)

// EstimateHandler handles estimate-related requests
type EstimateHandler struct {
	engine     *estimate.Engine
	solar      config.SolarConfig
	irradiance IrradianceProvider
	insights   InsightsProvider
	store      *ResultStore
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(engine *estimate.Engine, solar config.SolarConfig, irradiance IrradianceProvider, insights InsightsProvider, store *ResultStore) *EstimateHandler {
	return &EstimateHandler{
		engine:     engine,
		solar:      solar,
		irradiance: irradiance,
		insights:   insights,
		store:      store,
	}
}

// EstimateManual handles POST /api/v1/estimate/manual
func (h *EstimateHandler) EstimateManual(c *gin.Context) {
	var req models.ManualEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	roof := model.BuildRoofSelection(req.Polygon)

	var loc geo.LatLng
	switch {
	case req.Location != nil:
		loc = *req.Location
	case roof.HasPolygon:
		loc = roof.Centroid
	default:
		writeError(c, http.StatusBadRequest, CodeMissingLocation, "a location or a roof polygon is required")
		return
	}
	if err := validLocation(loc); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidLocation, err.Error())
		return
	}
	if err := req.Bill.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidBill, err.Error())
		return
	}
	if err := roof.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, CodeNoRoof, err.Error())
		return
	}

	angles := h.solar.DefaultAngles()
	if req.Angles != nil {
		angles = *req.Angles
	}
	if err := angles.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidAngles, err.Error())
		return
	}

	if len(req.Dataset) > 0 {
		if err := model.ValidateDataset(req.Dataset); err != nil {
			writeError(c, http.StatusBadRequest, CodeInvalidDataset, err.Error())
			return
		}
	}

	startTime := time.Now()
	dataset, origin := req.Dataset, "REQUEST"
	if len(dataset) == 0 {
		ds, err := h.irradiance.Fetch(c.Request.Context(), loc.Lat, loc.Lng)
		if err != nil {
			writeProviderError(c, err)
			return
		}
		dataset, origin = ds.Samples, ds.Origin
	}

	res := h.engine.ComputeManual(estimate.ManualInput{
		Roof:    roof,
		Angles:  angles,
		Bill:    req.Bill,
		Dataset: dataset,
	})
	metrics.ObserveEstimate(string(res.Source), res.DimensioningCapped, time.Since(startTime))
	log.Infow("manual estimate",
		"kwp", res.Summary.Kwp,
		"kwp_max", res.Summary.KwpMax,
		"capped", res.DimensioningCapped,
		"dataset", origin,
	)

	resp := h.store.Put(models.EstimateResponse{
		Result:        res,
		Angles:        angles,
		DatasetOrigin: origin,
	}, report.Meta{Location: formatLocation(loc)})
	c.JSON(http.StatusOK, resp)
}

// EstimateSegment handles POST /api/v1/estimate/segment
func (h *EstimateHandler) EstimateSegment(c *gin.Context) {
	var req models.SegmentEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	if req.Location == nil {
		writeError(c, http.StatusBadRequest, CodeMissingLocation, "location is required")
		return
	}
	loc := *req.Location
	if err := validLocation(loc); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidLocation, err.Error())
		return
	}
	if err := req.Bill.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidBill, err.Error())
		return
	}
	if len(req.Dataset) > 0 {
		if err := model.ValidateDataset(req.Dataset); err != nil {
			writeError(c, http.StatusBadRequest, CodeInvalidDataset, err.Error())
			return
		}
	}

	startTime := time.Now()
	var segment model.SolarSegment
	if req.Segment != nil {
		segment = *req.Segment
	} else {
		insights, err := h.insights.FindClosest(c.Request.Context(), loc.Lat, loc.Lng)
		if err != nil {
			writeProviderError(c, err)
			return
		}
		var ok bool
		if req.SegmentID != "" {
			segment, ok = insights.Segment(req.SegmentID)
			if !ok {
				writeError(c, http.StatusNotFound, CodeSegmentNotFound, fmt.Sprintf("segment %q not found", req.SegmentID))
				return
			}
		} else if segment, ok = insights.DefaultSegment(); !ok {
			writeError(c, http.StatusBadRequest, CodeNoRoof, "no roof segments at this location")
			return
		}
	}
	if err := segment.Angles().Validate(); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidAngles, err.Error())
		return
	}

	dataset, origin := req.Dataset, "REQUEST"
	if len(dataset) == 0 {
		dataset, origin = nil, ""
		if !req.SkipDataset {
			ds, err := h.irradiance.Fetch(c.Request.Context(), loc.Lat, loc.Lng)
			if err != nil {
				log.Warnf("segment estimate continues without dataset: %v", err)
			} else {
				dataset, origin = ds.Samples, ds.Origin
			}
		}
	}

	res := h.engine.ComputeSegment(estimate.SegmentInput{
		Segment:     segment,
		Bill:        req.Bill,
		Dataset:     dataset,
		LatitudeDeg: loc.Lat,
	})
	metrics.ObserveEstimate(string(res.Source), res.DimensioningCapped, time.Since(startTime))
	log.Infow("segment estimate",
		"segment", segment.SegmentID,
		"kwp", res.Summary.Kwp,
		"unconstrained", res.Summary.Unconstrained(),
		"capped", res.DimensioningCapped,
		"dataset", origin,
	)

	resp := h.store.Put(models.EstimateResponse{
		Result:        res,
		Angles:        segment.Angles(),
		SegmentID:     segment.SegmentID,
		DatasetOrigin: origin,
	}, report.Meta{Location: formatLocation(loc)})
	c.JSON(http.StatusOK, resp)
}

// GetEstimate handles GET /api/v1/estimate/:id
func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	stored, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stored.Response)
}

func (h *EstimateHandler) lookup(c *gin.Context) (*storedEstimate, bool) {
	id := c.Param("id")
	stored, ok := h.store.get(id)
	if !ok {
		writeError(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("estimate %s not found or expired", id))
		return nil, false
	}
	return stored, true
}

func formatLocation(p geo.LatLng) string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}
