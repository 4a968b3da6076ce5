package main

import (
	"fmt"
	"os"

	"pv-estimator/internal/config"
	"pv-estimator/internal/data"
	"pv-estimator/internal/estimate"
	"pv-estimator/internal/geo"
	"pv-estimator/internal/model"

	flag "github.com/spf13/pflag"
)

// Demo:
// - Load the built-in NASA POWER climatology (or --dataset)
// - Draw a square roof around a point in São Paulo
// - Size a system for a monthly bill and print the month table
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	datasetPath := flag.String("dataset", "", "Monthly irradiance JSON (default: built-in mock)")
	lat := flag.Float64("lat", -23.5505, "Roof center latitude")
	lng := flag.Float64("lng", -46.6333, "Roof center longitude")
	side := flag.Float64("side", 8, "Roof side in meters")
	spend := flag.Float64("spend", 450, "Monthly bill (BRL)")
	outCSV := flag.String("out", "", "Optional path to write the month table CSV (e.g. results/demo.csv)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	var dataset []model.MonthlyIrradianceSample
	if *datasetPath != "" {
		ds, err := data.LoadDataset(*datasetPath)
		if err != nil {
			panic(err)
		}
		dataset = ds.Samples
	} else if dataset, err = data.MockIrradiance(); err != nil {
		panic(err)
	}

	roof := model.BuildRoofSelection(geo.SquareAround(geo.LatLng{Lat: *lat, Lng: *lng}, *side))
	res := estimate.New(cfg.Solar.ToModelParams()).ComputeManual(estimate.ManualInput{
		Roof:    roof,
		Angles:  cfg.Solar.DefaultAngles(),
		Bill:    model.BillInput{MonthlySpendBRL: *spend},
		Dataset: dataset,
	})

	fmt.Printf("Roof: %.1f m² (usable %.1f m²) at %.4f, %.4f\n", roof.AreaM2, roof.UsableAreaM2, roof.Centroid.Lat, roof.Centroid.Lng)
	fmt.Printf("System: %.2f kWp (max %.2f kWp, capped=%v)\n", res.Summary.Kwp, res.Summary.KwpMax, res.DimensioningCapped)
	fmt.Println("")
	fmt.Printf("%-5s %8s %8s %10s %10s\n", "month", "hpoa", "yield", "kWh", "R$")
	for _, m := range res.Monthly {
		fmt.Printf("%-5s %8.1f %8.1f %10.1f %10.2f\n", m.Month, m.HPOA, m.SpecificYield, m.EnergyKWh, m.SavingsBRL)
	}
	fmt.Println("")
	fmt.Printf("Annual: %.0f kWh, R$ %.2f saved (tariff %.2f, target %.0f%%)\n",
		res.Summary.AnnualGenerationKWh, res.Summary.AnnualSavingsBRL,
		res.Summary.TariffApplied, res.Summary.CompensationTargetPct)

	if *outCSV != "" {
		if err := estimate.WriteMonthlyCSVFile(*outCSV, res); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outCSV)
	}
}
