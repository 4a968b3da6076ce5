package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pv-estimator/internal/config"
	"pv-estimator/internal/data"
	"pv-estimator/internal/log"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

// Downloads the NASA POWER monthly climatology for a point (and optionally
// the building insights) so the CLI and the API mock can run offline.
func main() {
	var (
		cfgPath      = flag.String("config", "", "Path to YAML config (optional)")
		lat          = flag.Float64("lat", 0, "Latitude")
		lng          = flag.Float64("lng", 0, "Longitude")
		outputPath   = flag.String("output", "", "Dataset output path (default: ./data/irradiance_<lat>_<lng>.json)")
		insightsPath = flag.String("insights", "", "Also fetch building insights to this path (needs SOLAR_API_KEY)")
		timeout      = flag.Duration("timeout", time.Minute, "Overall timeout")
	)
	flag.Parse()
	_ = godotenv.Load()

	if err := log.Init(true); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if !flag.CommandLine.Changed("lat") || !flag.CommandLine.Changed("lng") {
		log.Fatalf("--lat and --lng are required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	nasa, solar, err := data.NewClients(cfg.Providers)
	if err != nil {
		log.Fatalf("Failed to create clients: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("Fetching NASA POWER %s-%s for %.4f, %.4f\n", nasa.Start, nasa.End, *lat, *lng)
	samples, err := nasa.FetchLive(ctx, *lat, *lng)
	if err != nil {
		log.Fatalf("Failed to fetch irradiance: %v", err)
	}

	if *outputPath == "" {
		*outputPath = filepath.Join("data", fmt.Sprintf("irradiance_%.3f_%.3f.json", *lat, *lng))
	}
	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}
	ds := &data.IrradianceDataset{Lat: *lat, Lng: *lng, Origin: data.OriginNasaPower, Samples: samples}
	if err := data.SaveDataset(*outputPath, ds); err != nil {
		log.Fatalf("Failed to save dataset: %v", err)
	}
	fmt.Printf("Saved %d months to %s\n", len(samples), *outputPath)

	if *insightsPath == "" {
		return
	}
	insights, err := solar.FindClosest(ctx, *lat, *lng)
	if err != nil {
		if data.IsNotFound(err) {
			log.Fatalf("No building insights coverage at %.4f, %.4f", *lat, *lng)
		}
		log.Fatalf("Failed to fetch building insights: %v", err)
	}
	if err := data.SaveInsights(*insightsPath, insights); err != nil {
		log.Fatalf("Failed to save insights: %v", err)
	}
	fmt.Printf("Saved %d segments to %s\n", len(insights.Segments), *insightsPath)
}
