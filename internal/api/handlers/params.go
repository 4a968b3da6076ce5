package handlers

import (
	"net/http"

	"pv-estimator/internal/api/models"
	"pv-estimator/internal/config"

	"github.com/gin-gonic/gin"
)

// ParamsHandler exposes the effective configuration to clients
type ParamsHandler struct {
	solar config.SolarConfig
}

// NewParamsHandler creates a new params handler
func NewParamsHandler(solar config.SolarConfig) *ParamsHandler {
	return &ParamsHandler{solar: solar}
}

// GetParams handles GET /api/v1/params
func (h *ParamsHandler) GetParams(c *gin.Context) {
	c.JSON(http.StatusOK, models.ParamsResponse{
		Params:          h.solar.ToModelParams(),
		DefaultAngles:   h.solar.DefaultAngles(),
		TiltRangeDeg:    h.solar.TiltRangeDeg,
		AzimuthRangeDeg: h.solar.AzimuthRangeDeg,
	})
}
