package data

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pv-estimator/internal/log"
	"pv-estimator/internal/model"
	"pv-estimator/internal/observability/metrics"

	"golang.org/x/time/rate"
)

const (
	ProviderNasaPower = "nasa_power"

	DefaultNasaPowerURL = "https://power.larc.nasa.gov"
	DefaultPowerStart   = "199101"
	DefaultPowerEnd     = "202412"

	paramGHI = "ALLSKY_SFC_SW_DWN"
	paramDNI = "ALLSKY_SFC_SW_DNI"
	paramDHI = "ALLSKY_SFC_SW_DIFF"
)

// Dataset origins reported alongside the samples.
const (
	OriginNasaPower = "NASA_POWER"
	OriginMock      = "MOCK"
)

// MonthLabels are the Portuguese month abbreviations used as series labels.
var MonthLabels = [model.MonthsPerYear]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

var monthKeys = [model.MonthsPerYear]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

//go:embed mock/nasa_power_monthly.json
var mockPowerResponse []byte

// IrradianceDataset is a monthly irradiance series with its origin.
type IrradianceDataset struct {
	Lat     float64                         `json:"lat"`
	Lng     float64                         `json:"lng"`
	Origin  string                          `json:"origin"`
	Samples []model.MonthlyIrradianceSample `json:"samples"`
}

// ClientOptions carries the knobs shared by the provider clients.
type ClientOptions struct {
	HTTPClient        *http.Client
	CacheTTL          time.Duration
	RequestsPerSecond float64
}

func (o ClientOptions) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (o ClientOptions) limiter() *rate.Limiter {
	if o.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(o.RequestsPerSecond), 1)
}

// NasaPowerClient fetches monthly GHI/DNI/DHI point data from NASA POWER.
type NasaPowerClient struct {
	BaseURL string
	Start   string
	End     string
	Client  *http.Client

	limiter *rate.Limiter
	cache   *Cache[[]model.MonthlyIrradianceSample]
	mock    []model.MonthlyIrradianceSample
}

// NewNasaPowerClient creates a client. Empty baseURL, start or end fall
// back to the public endpoint and the 1991-2024 window.
func NewNasaPowerClient(baseURL, start, end string, opts ClientOptions) *NasaPowerClient {
	if baseURL == "" {
		baseURL = DefaultNasaPowerURL
	}
	if start == "" {
		start = DefaultPowerStart
	}
	if end == "" {
		end = DefaultPowerEnd
	}
	return &NasaPowerClient{
		BaseURL: baseURL,
		Start:   start,
		End:     end,
		Client:  opts.httpClient(),
		limiter: opts.limiter(),
		cache:   NewCache[[]model.MonthlyIrradianceSample](opts.CacheTTL, 0),
	}
}

// WithMock replaces the built-in fallback climatology.
func (c *NasaPowerClient) WithMock(samples []model.MonthlyIrradianceSample) *NasaPowerClient {
	c.mock = samples
	return c
}

// ResetCache drops every cached dataset so the next Fetch hits the provider.
func (c *NasaPowerClient) ResetCache() { c.cache.Clear() }

// Fetch returns the monthly series for a point, falling back to the mock
// dataset when the provider cannot be reached or answers garbage.
func (c *NasaPowerClient) Fetch(ctx context.Context, lat, lng float64) (*IrradianceDataset, error) {
	samples, err := c.FetchLive(ctx, lat, lng)
	if err == nil {
		return &IrradianceDataset{Lat: lat, Lng: lng, Origin: OriginNasaPower, Samples: samples}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log.Warnf("[NasaPower] falling back to mock dataset (lat=%.4f, lng=%.4f): %v", lat, lng, err)
	metrics.IncProviderRequest(ProviderNasaPower, metrics.ResultFallback)

	mock := c.mock
	if len(mock) == 0 {
		mock, err = MockIrradiance()
		if err != nil {
			return nil, fmt.Errorf("load mock dataset: %w", err)
		}
	}
	return &IrradianceDataset{Lat: lat, Lng: lng, Origin: OriginMock, Samples: mock}, nil
}

// FetchLive queries the provider without any fallback.
func (c *NasaPowerClient) FetchLive(ctx context.Context, lat, lng float64) ([]model.MonthlyIrradianceSample, error) {
	key := fmt.Sprintf("%.3f,%.3f", lat, lng)
	if cached, ok := c.cache.Get(key); ok {
		metrics.IncProviderCacheHit(ProviderNasaPower)
		log.Debugf("[NasaPower] Cache hit (key=%s)", key)
		return cached, nil
	}

	u, err := url.Parse(c.BaseURL + "/api/temporal/monthly/point")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("parameters", paramGHI+","+paramDNI+","+paramDHI)
	q.Set("community", "RE")
	q.Set("longitude", strconv.FormatFloat(lng, 'f', 4, 64))
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("start", c.Start)
	q.Set("end", c.End)
	q.Set("format", "JSON")
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
		metrics.IncProviderRequest(ProviderNasaPower, metrics.ResultError)
		log.Warnf("[NasaPower] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Infof("[NasaPower] Response: %d (duration: %v, lat=%.4f, lng=%.4f)", resp.StatusCode, duration, lat, lng)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncProviderRequest(ProviderNasaPower, metrics.ResultError)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.IncProviderRequest(ProviderNasaPower, metrics.ResultError)
		return nil, statusError(ProviderNasaPower, resp, "")
	}

	samples, err := ParsePowerMonthly(body)
	if err != nil {
		metrics.IncProviderRequest(ProviderNasaPower, metrics.ResultError)
		return nil, err
	}
	metrics.IncProviderRequest(ProviderNasaPower, metrics.ResultSuccess)
	c.cache.Set(key, samples)
	return samples, nil
}

type powerResponse struct {
	Properties *struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// ParsePowerMonthly turns a POWER point response into twelve samples.
// Climatology responses keyed JAN..DEC are read directly; YYYYMM series are
// averaged per calendar month. Fill values (negative) count as zero.
func ParsePowerMonthly(raw []byte) ([]model.MonthlyIrradianceSample, error) {
	var resp powerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse NASA POWER response: %w", err)
	}
	if resp.Properties == nil || resp.Properties.Parameter == nil {
		return nil, &ProviderError{Provider: ProviderNasaPower, Code: "INVALID_RESPONSE", Message: "Invalid NASA POWER response"}
	}
	params := resp.Properties.Parameter
	ghi, okG := params[paramGHI]
	if !okG {
		return nil, &ProviderError{Provider: ProviderNasaPower, Code: "INVALID_RESPONSE", Message: "missing " + paramGHI}
	}
	ghiM := monthlyMeans(ghi)
	dniM := monthlyMeans(params[paramDNI])
	dhiM := monthlyMeans(params[paramDHI])

	out := make([]model.MonthlyIrradianceSample, model.MonthsPerYear)
	for i := range out {
		out[i] = model.MonthlyIrradianceSample{
			Month: MonthLabels[i],
			GHI:   ghiM[i],
			DNI:   dniM[i],
			DHI:   dhiM[i],
		}
	}
	return out, nil
}

func monthlyMeans(series map[string]float64) [model.MonthsPerYear]float64 {
	var out [model.MonthsPerYear]float64
	if len(series) == 0 {
		return out
	}
	if _, ok := series[monthKeys[0]]; ok {
		for i, k := range monthKeys {
			out[i] = nonNegative(series[k])
		}
		return out
	}

	var counts [model.MonthsPerYear]int
	for k, v := range series {
		if len(k) != 6 {
			continue
		}
		m, err := strconv.Atoi(k[4:])
		if err != nil || m < 1 || m > model.MonthsPerYear {
			continue // YYYY13 is the annual mean
		}
		out[m-1] += nonNegative(v)
		counts[m-1]++
	}
	for i := range out {
		if counts[i] > 0 {
			out[i] /= float64(counts[i])
		}
	}
	return out
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// MockIrradiance is the built-in fallback climatology.
func MockIrradiance() ([]model.MonthlyIrradianceSample, error) {
	return ParsePowerMonthly(mockPowerResponse)
}
