package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pv-estimator/internal/api"
	"pv-estimator/internal/api/handlers"
	"pv-estimator/internal/config"
	"pv-estimator/internal/data"
	"pv-estimator/internal/estimate"
	"pv-estimator/internal/log"
	"pv-estimator/internal/observability/metrics"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (optional)")
	debug := flag.Bool("debug", false, "Verbose development logging")
	flag.Parse()

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded .env")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(*debug || !cfg.IsProduction()); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	metrics.Init()

	nasa, solar, err := data.NewClients(cfg.Providers)
	if err != nil {
		log.Fatalf("Failed to create provider clients: %v", err)
	}
	if cfg.Providers.SolarAPI.APIKey == "" {
		log.Warnf("SOLAR_API_KEY not set; building-insights lookups will fail and only manual roofs work")
	}

	engine := estimate.New(cfg.Solar.ToModelParams())
	store := handlers.NewResultStore(cfg.Server.ResultTTL)
	defer store.Close()

	router := api.NewRouter(cfg, api.Handlers{
		Estimate: handlers.NewEstimateHandler(engine, cfg.Solar, nasa, solar, store),
		Provider: handlers.NewProviderHandler(engine, nasa, solar),
		Params:   handlers.NewParamsHandler(cfg.Solar),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SIGHUP drops cached provider responses, e.g. after a new POWER release.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				nasa.ResetCache()
				solar.ResetCache()
				log.Infof("Provider caches cleared")
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		log.Infof("Starting API server on %s (env=%s)", srv.Addr, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}
