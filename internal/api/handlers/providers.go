package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"pv-estimator/internal/api/models"
	"pv-estimator/internal/data"
	"pv-estimator/internal/geo"
	"pv-estimator/internal/model"

	"github.com/gin-gonic/gin"
)

// IrradianceProvider returns a monthly irradiance dataset for a point.
type IrradianceProvider interface {
	Fetch(ctx context.Context, lat, lng float64) (*data.IrradianceDataset, error)
}

// InsightsProvider looks up the building closest to a point.
type InsightsProvider interface {
	FindClosest(ctx context.Context, lat, lng float64) (*model.BuildingInsights, error)
}

func validLocation(p geo.LatLng) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("location out of range: %.6f, %.6f", p.Lat, p.Lng)
	}
	return nil
}

// locationFromQuery binds ?lat=&lng= and writes the error response itself.
func locationFromQuery(c *gin.Context) (geo.LatLng, bool) {
	var q models.LocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidLocation, err.Error())
		return geo.LatLng{}, false
	}
	if q.Lat == nil || q.Lng == nil {
		writeError(c, http.StatusBadRequest, CodeMissingLocation, "lat and lng query parameters are required")
		return geo.LatLng{}, false
	}
	loc := geo.LatLng{Lat: *q.Lat, Lng: *q.Lng}
	if err := validLocation(loc); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidLocation, err.Error())
		return geo.LatLng{}, false
	}
	return loc, true
}
