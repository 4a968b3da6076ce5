package handlers

import (
	"net/http"

	"pv-estimator/internal/analysis"
	"pv-estimator/internal/api/models"
	"pv-estimator/internal/estimate"
	"pv-estimator/internal/log"
	"pv-estimator/internal/model"

	"github.com/gin-gonic/gin"
)

// ProviderHandler serves provider lookups and the analyses built on them
type ProviderHandler struct {
	engine     *estimate.Engine
	irradiance IrradianceProvider
	insights   InsightsProvider
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(engine *estimate.Engine, irradiance IrradianceProvider, insights InsightsProvider) *ProviderHandler {
	return &ProviderHandler{engine: engine, irradiance: irradiance, insights: insights}
}

// GetIrradiance handles GET /api/v1/irradiance
func (h *ProviderHandler) GetIrradiance(c *gin.Context) {
	loc, ok := locationFromQuery(c)
	if !ok {
		return
	}
	ds, err := h.irradiance.Fetch(c.Request.Context(), loc.Lat, loc.Lng)
	if err != nil {
		writeProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

// GetInsights handles GET /api/v1/insights
func (h *ProviderHandler) GetInsights(c *gin.Context) {
	loc, ok := locationFromQuery(c)
	if !ok {
		return
	}

	insights, err := h.insights.FindClosest(c.Request.Context(), loc.Lat, loc.Lng)
	if err != nil {
		writeProviderError(c, err)
		return
	}

	var dataset []model.MonthlyIrradianceSample
	origin := ""
	if ds, err := h.irradiance.Fetch(c.Request.Context(), loc.Lat, loc.Lng); err != nil {
		log.Warnf("ranking segments without dataset: %v", err)
	} else {
		dataset, origin = ds.Samples, ds.Origin
	}

	ranked := analysis.RankSegments(h.engine, insights.Segments, dataset, loc.Lat)
	resp := models.InsightsResponse{
		Insights:      *insights,
		Ranked:        ranked,
		DatasetOrigin: origin,
	}
	// Same pick EstimateSegment makes when no segment_id is given.
	if seg, ok := insights.DefaultSegment(); ok {
		resp.DefaultSegmentID = seg.SegmentID
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrientations handles GET /api/v1/orientations
func (h *ProviderHandler) GetOrientations(c *gin.Context) {
	var q models.OrientationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	loc, ok := locationFromQuery(c)
	if !ok {
		return
	}

	ds, err := h.irradiance.Fetch(c.Request.Context(), loc.Lat, loc.Lng)
	if err != nil {
		writeProviderError(c, err)
		return
	}

	grid := analysis.DefaultGrid()
	if q.TiltStep > 0 {
		grid.TiltStep = q.TiltStep
	}
	if q.AzimuthStep > 0 {
		grid.AzimuthStep = q.AzimuthStep
	}

	sweep := analysis.SweepOrientations(h.engine, ds.Samples, loc.Lat, grid)
	if q.Limit > 0 && q.Limit < len(sweep) {
		sweep = sweep[:q.Limit]
	}
	c.JSON(http.StatusOK, models.OrientationResponse{Orientations: sweep, DatasetOrigin: ds.Origin})
}
