package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pv-estimator/internal/api/handlers"
	"pv-estimator/internal/config"
	"pv-estimator/internal/data"
	"pv-estimator/internal/estimate"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Server.StaticDir = staticDir
	cfg.Server.CORSOrigins = []string{"https://app.example.com"}

	engine := estimate.New(cfg.Solar.ToModelParams())
	mock, err := data.MockIrradiance()
	require.NoError(t, err)
	irradiance := data.NewNasaPowerClient("http://127.0.0.1:1", "", "", data.ClientOptions{}).WithMock(mock)
	insights := data.NewSolarAPIClient("", "", data.ClientOptions{})
	store := handlers.NewResultStore(time.Hour)
	t.Cleanup(store.Close)

	return NewRouter(cfg, Handlers{
		Estimate: handlers.NewEstimateHandler(engine, cfg.Solar, irradiance, insights, store),
		Provider: handlers.NewProviderHandler(engine, irradiance, insights),
		Params:   handlers.NewParamsHandler(cfg.Solar),
	})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newRouter(t, "")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_MissingAPIKeySurfaces(t *testing.T) {
	r := newRouter(t, "")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/insights?lat=-23.5&lng=-46.6", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_API_KEY")
}

func TestRouter_IrradianceFallsBackToMock(t *testing.T) {
	r := newRouter(t, "")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/irradiance?lat=-23.5&lng=-46.6", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"origin":"MOCK"`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/estimate/manual", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_StaticSPA(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o644))
	r := newRouter(t, dir)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/some/client/route", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spa")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestRouter_NoStaticDir(t *testing.T) {
	r := newRouter(t, filepath.Join(t.TempDir(), "missing"))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
