package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pv-estimator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const climatologyBody = `{"properties":{"parameter":{
 "ALLSKY_SFC_SW_DWN":{"JAN":6,"FEB":5.9,"MAR":5.5,"APR":4.8,"MAY":4.1,"JUN":3.8,"JUL":4,"AUG":4.7,"SEP":5,"OCT":5.6,"NOV":6,"DEC":6.2},
 "ALLSKY_SFC_SW_DNI":{"JAN":4,"FEB":4,"MAR":4,"APR":4,"MAY":4,"JUN":4,"JUL":4,"AUG":4,"SEP":4,"OCT":4,"NOV":4,"DEC":4},
 "ALLSKY_SFC_SW_DIFF":{"JAN":2.5,"FEB":2.4,"MAR":2.2,"APR":1.8,"MAY":1.5,"JUN":1.3,"JUL":1.4,"AUG":1.6,"SEP":2,"OCT":2.3,"NOV":2.5,"DEC":-999}
}}}`

func TestParsePowerMonthly_Climatology(t *testing.T) {
	samples, err := ParsePowerMonthly([]byte(climatologyBody))
	require.NoError(t, err)
	require.Len(t, samples, model.MonthsPerYear)

	assert.Equal(t, "Jan", samples[0].Month)
	assert.Equal(t, "Dez", samples[11].Month)
	assert.InDelta(t, 6.0, samples[0].GHI, 1e-9)
	assert.InDelta(t, 4.0, samples[5].DNI, 1e-9)
	assert.Equal(t, 0.0, samples[11].DHI, "fill values count as zero")
}

func TestParsePowerMonthly_TimeSeriesAveraged(t *testing.T) {
	body := `{"properties":{"parameter":{
	 "ALLSKY_SFC_SW_DWN":{"202301":5,"202302":4,"202313":4.5,"202401":7,"202402":6,"202413":6.5}
	}}}`
	samples, err := ParsePowerMonthly([]byte(body))
	require.NoError(t, err)

	assert.InDelta(t, 6.0, samples[0].GHI, 1e-9)
	assert.InDelta(t, 5.0, samples[1].GHI, 1e-9)
	assert.Equal(t, 0.0, samples[2].GHI)
	assert.Equal(t, 0.0, samples[0].DHI)
}

func TestParsePowerMonthly_Invalid(t *testing.T) {
	_, err := ParsePowerMonthly([]byte(`{"properties":{}}`))
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "INVALID_RESPONSE", pe.Code)

	_, err = ParsePowerMonthly([]byte(`not json`))
	assert.Error(t, err)
}

func TestMockIrradiance(t *testing.T) {
	samples, err := MockIrradiance()
	require.NoError(t, err)
	require.Len(t, samples, model.MonthsPerYear)
	for _, s := range samples {
		assert.Greater(t, s.GHI, s.DHI, s.Month)
	}
}

func TestNasaPowerClient_FetchAndCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/api/temporal/monthly/point", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "RE", q.Get("community"))
		assert.Equal(t, "ALLSKY_SFC_SW_DWN,ALLSKY_SFC_SW_DNI,ALLSKY_SFC_SW_DIFF", q.Get("parameters"))
		assert.Equal(t, DefaultPowerStart, q.Get("start"))
		assert.Equal(t, DefaultPowerEnd, q.Get("end"))
		_, _ = w.Write([]byte(climatologyBody))
	}))
	defer srv.Close()

	c := NewNasaPowerClient(srv.URL, "", "", ClientOptions{CacheTTL: time.Hour})
	ds, err := c.Fetch(context.Background(), -23.5, -46.6)
	require.NoError(t, err)
	assert.Equal(t, OriginNasaPower, ds.Origin)
	assert.InDelta(t, 6.2, ds.Samples[11].GHI, 1e-9)

	// Same point at the cache key precision.
	_, err = c.Fetch(context.Background(), -23.5001, -46.6002)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	c.ResetCache()
	_, err = c.Fetch(context.Background(), -23.5, -46.6)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "reset forces a new request")
}

func TestNasaPowerClient_FallsBackToMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewNasaPowerClient(srv.URL, "", "", ClientOptions{})
	_, err := c.FetchLive(context.Background(), 0, 0)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)

	ds, err := c.Fetch(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, OriginMock, ds.Origin)
	assert.Len(t, ds.Samples, model.MonthsPerYear)

	custom := []model.MonthlyIrradianceSample{{Month: "X", GHI: 1}}
	ds, err = c.WithMock(custom).Fetch(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, custom, ds.Samples)
}

func TestNasaPowerClient_CanceledContext(t *testing.T) {
	c := NewNasaPowerClient("http://127.0.0.1:1", "", "", ClientOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
