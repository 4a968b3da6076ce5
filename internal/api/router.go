// Package api assembles the gin router for the estimator HTTP service.
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pv-estimator/internal/api/handlers"
	"pv-estimator/internal/api/middleware"
	"pv-estimator/internal/config"
	"pv-estimator/internal/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Estimate *handlers.EstimateHandler
	Provider *handlers.ProviderHandler
	Params   *handlers.ParamsHandler
}

// NewRouter builds the router. The static SPA is served only when
// cfg.Server.StaticDir exists.
func NewRouter(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/params", h.Params.GetParams)

		v1.GET("/irradiance", h.Provider.GetIrradiance)
		v1.GET("/insights", h.Provider.GetInsights)
		v1.GET("/orientations", h.Provider.GetOrientations)

		v1.POST("/estimate/manual", h.Estimate.EstimateManual)
		v1.POST("/estimate/segment", h.Estimate.EstimateSegment)
		v1.GET("/estimate/:id", h.Estimate.GetEstimate)
		v1.GET("/estimate/:id/pdf", h.Estimate.ExportPDF)
		v1.GET("/estimate/:id/xlsx", h.Estimate.ExportXLSX)
	}

	serveStatic(router, cfg.Server.StaticDir)
	return router
}

func serveStatic(router *gin.Engine, staticDir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	}

	if staticDir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		log.Infof("Static directory %s not found, skipping static file serving", staticDir)
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))

	// Serve index.html for all non-API routes (SPA routing)
	index := filepath.Join(staticDir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	log.Infof("Serving static files from %s", staticDir)
}
