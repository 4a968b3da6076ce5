package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pv-estimator/internal/log"
	"pv-estimator/internal/model"
	"pv-estimator/internal/observability/metrics"

	"golang.org/x/time/rate"
)

const (
	ProviderSolarAPI = "solar_api"

	DefaultSolarAPIURL = "https://solar.googleapis.com"

	defaultSegmentPitch = 18.0
)

// SolarAPIClient looks up the closest building and its roof segments.
type SolarAPIClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client

	limiter *rate.Limiter
	cache   *Cache[*model.BuildingInsights]
}

// NewSolarAPIClient creates a new building-insights client.
// If baseURL is empty, defaults to "https://solar.googleapis.com".
func NewSolarAPIClient(apiKey, baseURL string, opts ClientOptions) *SolarAPIClient {
	if baseURL == "" {
		baseURL = DefaultSolarAPIURL
	}
	return &SolarAPIClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client:  opts.httpClient(),
		limiter: opts.limiter(),
		cache:   NewCache[*model.BuildingInsights](opts.CacheTTL, 0),
	}
}

// ResetCache drops every cached building lookup.
func (c *SolarAPIClient) ResetCache() { c.cache.Clear() }

func (c *SolarAPIClient) validateAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ProviderError{
			Provider:   ProviderSolarAPI,
			StatusCode: http.StatusUnauthorized,
			Code:       "MISSING_API_KEY",
			Message:    "SOLAR_API_KEY is not configured",
		}
	}
	return nil
}

// FindClosest fetches the building insights nearest to the point.
// A 404 means the location has no coverage; check it with IsNotFound.
func (c *SolarAPIClient) FindClosest(ctx context.Context, lat, lng float64) (*model.BuildingInsights, error) {
	if err := c.validateAPIKey(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%.4f,%.4f", lat, lng)
	if cached, ok := c.cache.Get(key); ok {
		metrics.IncProviderCacheHit(ProviderSolarAPI)
		log.Debugf("[SolarAPI] Cache hit (key=%s, segments=%d)", key, len(cached.Segments))
		return cached, nil
	}

	u, err := url.Parse(c.BaseURL + "/v1/buildingInsights:findClosest")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("requiredQuality", string(model.CoverageBase))
	q.Set("key", c.APIKey)
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		metrics.IncProviderRequest(ProviderSolarAPI, metrics.ResultError)
		log.Warnf("[SolarAPI] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Infof("[SolarAPI] Response: %d (duration: %v, lat=%.4f, lng=%.4f)", resp.StatusCode, duration, lat, lng)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncProviderRequest(ProviderSolarAPI, metrics.ResultError)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.IncProviderRequest(ProviderSolarAPI, metrics.ResultError)
		return nil, statusError(ProviderSolarAPI, resp, strings.TrimSpace(string(body)))
	}

	insights, err := ParseBuildingInsights(body)
	if err != nil {
		metrics.IncProviderRequest(ProviderSolarAPI, metrics.ResultError)
		return nil, err
	}
	metrics.IncProviderRequest(ProviderSolarAPI, metrics.ResultSuccess)
	c.cache.Set(key, insights)
	return insights, nil
}

type buildingInsightsResponse struct {
	Center *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"center"`
	SolarPotential *struct {
		RoofSegmentSummaries []struct {
			SegmentID           string   `json:"segmentId"`
			PitchDegrees        *float64 `json:"pitchDegrees"`
			AzimuthDegrees      *float64 `json:"azimuthDegrees"`
			GroundAreaMeters2   float64  `json:"groundAreaMeters2"`
			MaxArrayAreaMeters2 float64  `json:"maxArrayAreaMeters2"`
			Stats               *struct {
				YearlyEnergyDcKwh  float64   `json:"yearlyEnergyDcKwh"`
				MonthlyEnergyDcKwh []float64 `json:"monthlyEnergyDcKwh"`
				DcCapacityKw       float64   `json:"dcCapacityKw"`
			} `json:"stats"`
		} `json:"roofSegmentSummaries"`
	} `json:"solarPotential"`
}

// ParseBuildingInsights normalizes a findClosest response. Segments without
// an id are named segment-N; missing pitch defaults to 18°, azimuth to 0°.
func ParseBuildingInsights(raw []byte) (*model.BuildingInsights, error) {
	var resp buildingInsightsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse building insights: %w", err)
	}

	out := &model.BuildingInsights{CoverageQuality: model.CoverageUnknown}
	if resp.Center != nil {
		out.Lat = resp.Center.Latitude
		out.Lng = resp.Center.Longitude
	}
	if resp.SolarPotential == nil {
		return out, nil
	}

	out.Segments = make([]model.SolarSegment, 0, len(resp.SolarPotential.RoofSegmentSummaries))
	for i, s := range resp.SolarPotential.RoofSegmentSummaries {
		seg := model.SolarSegment{
			SegmentID:           s.SegmentID,
			PitchDegrees:        defaultSegmentPitch,
			GroundAreaMeters2:   s.GroundAreaMeters2,
			MaxArrayAreaMeters2: s.MaxArrayAreaMeters2,
		}
		if seg.SegmentID == "" {
			seg.SegmentID = fmt.Sprintf("segment-%d", i+1)
		}
		if s.PitchDegrees != nil {
			seg.PitchDegrees = *s.PitchDegrees
		}
		if s.AzimuthDegrees != nil {
			seg.AzimuthDegrees = *s.AzimuthDegrees
		}
		if s.Stats != nil {
			seg.MonthlyEnergyKwh = s.Stats.MonthlyEnergyDcKwh
			seg.AnnualEnergyKwh = s.Stats.YearlyEnergyDcKwh
			seg.RecommendedSystemKw = s.Stats.DcCapacityKw
		}
		out.Segments = append(out.Segments, seg)
	}
	return out, nil
}
