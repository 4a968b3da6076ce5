package handlers

import (
	"time"

	"pv-estimator/internal/api/models"
	"pv-estimator/internal/data"
	"pv-estimator/internal/report"

	"github.com/google/uuid"
)

// storedEstimate is what the export endpoints need to re-render a result.
type storedEstimate struct {
	Response models.EstimateResponse
	Meta     report.Meta
}

// ResultStore keeps computed estimates retrievable by id for a while.
type ResultStore struct {
	cache *data.Cache[*storedEstimate]
	now   func() time.Time
}

// NewResultStore creates a store whose entries expire after ttl.
func NewResultStore(ttl time.Duration) *ResultStore {
	return &ResultStore{
		cache: data.NewCache[*storedEstimate](ttl, ttl),
		now:   time.Now,
	}
}

// Put assigns an id and creation time to resp and stores it.
func (s *ResultStore) Put(resp models.EstimateResponse, meta report.Meta) models.EstimateResponse {
	resp.ID = uuid.NewString()
	resp.CreatedAt = s.now().UTC()
	resp.Links = models.ReportLinks{
		Self: "/api/v1/estimate/" + resp.ID,
		PDF:  "/api/v1/estimate/" + resp.ID + "/pdf",
		XLSX: "/api/v1/estimate/" + resp.ID + "/xlsx",
	}

	meta.ID = resp.ID
	meta.GeneratedAt = resp.CreatedAt
	meta.Angles = resp.Angles
	meta.SegmentID = resp.SegmentID

	s.cache.Set(resp.ID, &storedEstimate{Response: resp, Meta: meta})
	return resp
}

func (s *ResultStore) get(id string) (*storedEstimate, bool) {
	return s.cache.Get(id)
}

// Close stops the expiry goroutine.
func (s *ResultStore) Close() {
	s.cache.Close()
}
