package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pv-estimator/internal/analysis"
	"pv-estimator/internal/config"
	"pv-estimator/internal/data"
	"pv-estimator/internal/estimate"
	"pv-estimator/internal/geo"
	"pv-estimator/internal/log"
	"pv-estimator/internal/model"
	"pv-estimator/internal/report"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "manual":
		err = cmdManual(os.Args[2:])
	case "segment":
		err = cmdSegment(os.Args[2:])
	case "rank":
		err = cmdRank(os.Args[2:])
	case "sweep":
		err = cmdSweep(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli manual  --polygon \"lat,lng;lat,lng;lat,lng\" --spend 500 [--tilt 18 --azimuth 0] [--dataset d.json] --out results/manual.csv")
	fmt.Println("  cli manual  --lat -23.55 --lng -46.63 --side 10 --spend 500")
	fmt.Println("  cli segment --segment s.json --lat -23.55 --spend 500 [--dataset d.json | --no-dataset]")
	fmt.Println("  cli segment --insights i.json --segment-id seg-1 --spend 500")
	fmt.Println("  cli rank    --insights i.json [--dataset d.json]")
	fmt.Println("  cli sweep   --lat -23.55 --lng -46.63 [--dataset d.json] [--top 10]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --dataset the monthly climatology is fetched from NASA POWER (mock on failure)")
	fmt.Println("  - --config loads YAML; env overrides (DEFAULT_TARIFF, SPECIFIC_KWP_PER_M2, ...) apply on top")
}

// common holds the flags every subcommand shares.
type common struct {
	cfgPath     string
	datasetPath string
	debug       bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.cfgPath, "config", "", "Path to YAML config (optional)")
	fs.StringVar(&c.datasetPath, "dataset", "", "Monthly irradiance JSON (optional, fetched when empty)")
	fs.BoolVar(&c.debug, "debug", false, "Verbose logging")
}

func (c *common) setup() (*config.Config, error) {
	if err := log.Init(c.debug); err != nil {
		return nil, err
	}
	return config.Load(c.cfgPath)
}

func (c *common) dataset(cfg *config.Config, lat, lng float64) ([]model.MonthlyIrradianceSample, string, error) {
	if c.datasetPath != "" {
		ds, err := data.LoadDataset(c.datasetPath)
		if err != nil {
			return nil, "", err
		}
		return ds.Samples, c.datasetPath, nil
	}
	nasa, _, err := data.NewClients(cfg.Providers)
	if err != nil {
		return nil, "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ds, err := nasa.Fetch(ctx, lat, lng)
	if err != nil {
		return nil, "", err
	}
	return ds.Samples, ds.Origin, nil
}

type billFlags struct {
	spend       float64
	tariff      float64
	consumption float64
	target      float64
}

func (b *billFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&b.spend, "spend", 0, "Monthly electricity spend (BRL)")
	fs.Float64Var(&b.tariff, "tariff", 0, "Tariff BRL/kWh (optional)")
	fs.Float64Var(&b.consumption, "consumption", 0, "Monthly consumption kWh (optional)")
	fs.Float64Var(&b.target, "target", 0, "Compensation target percent, 50-100 (0 = configured default)")
}

func (b *billFlags) bill() (model.BillInput, error) {
	bill := model.BillInput{
		MonthlySpendBRL:       b.spend,
		TariffBRLkWh:          b.tariff,
		MonthlyConsumptionKWh: b.consumption,
		CompensationTargetPct: b.target,
	}
	return bill, bill.Validate()
}

type outputFlags struct {
	csvPath  string
	pdfPath  string
	xlsxPath string
	asJSON   bool
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.csvPath, "out", "", "Optional monthly CSV output path")
	fs.StringVar(&o.pdfPath, "pdf", "", "Optional PDF report path")
	fs.StringVar(&o.xlsxPath, "xlsx", "", "Optional XLSX report path")
	fs.BoolVar(&o.asJSON, "json", false, "Print the full result as JSON")
}

func (o *outputFlags) write(res model.Result, meta report.Meta) error {
	if o.csvPath != "" {
		if err := ensureDir(o.csvPath); err != nil {
			return err
		}
		if err := estimate.WriteMonthlyCSVFile(o.csvPath, res); err != nil {
			return err
		}
		fmt.Printf("Wrote %d months to %s\n", len(res.Monthly), o.csvPath)
	}
	if o.pdfPath != "" {
		if err := writeReport(o.pdfPath, res, meta, report.BuildPDF); err != nil {
			return err
		}
	}
	if o.xlsxPath != "" {
		if err := writeReport(o.xlsxPath, res, meta, report.BuildXLSX); err != nil {
			return err
		}
	}
	if o.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printSummary(res)
	return nil
}

func cmdManual(args []string) error {
	fs := flag.NewFlagSet("manual", flag.ExitOnError)
	var c common
	var b billFlags
	var o outputFlags
	c.register(fs)
	b.register(fs)
	o.register(fs)
	polygon := fs.String("polygon", "", `Roof outline "lat,lng;lat,lng;..." (>= 3 points)`)
	lat := fs.Float64("lat", 0, "Roof center latitude (with --side, when no polygon)")
	lng := fs.Float64("lng", 0, "Roof center longitude")
	side := fs.Float64("side", 10, "Side (m) of the default square roof around --lat/--lng")
	tilt := fs.Float64("tilt", -1, "Module tilt in degrees (default: configured)")
	azimuth := fs.Float64("azimuth", -1, "Module azimuth, compass degrees (default: configured)")
	_ = fs.Parse(args)

	cfg, err := c.setup()
	if err != nil {
		return err
	}

	var path []geo.LatLng
	switch {
	case *polygon != "":
		if path, err = parsePolygon(*polygon); err != nil {
			return err
		}
	case fs.Changed("lat") && fs.Changed("lng"):
		path = geo.SquareAround(geo.LatLng{Lat: *lat, Lng: *lng}, *side)
	default:
		return fmt.Errorf("--polygon or --lat/--lng is required")
	}
	roof := model.BuildRoofSelection(path)
	if err := roof.Validate(); err != nil {
		return err
	}

	bill, err := b.bill()
	if err != nil {
		return err
	}

	angles := cfg.Solar.DefaultAngles()
	if *tilt >= 0 {
		angles.BetaDeg = *tilt
	}
	if *azimuth >= 0 {
		angles.GammaDeg = *azimuth
	}
	if err := angles.Validate(); err != nil {
		return err
	}

	dataset, origin, err := c.dataset(cfg, roof.Centroid.Lat, roof.Centroid.Lng)
	if err != nil {
		return err
	}
	fmt.Printf("Roof %.1f m² (usable %.1f m²), dataset %s\n", roof.AreaM2, roof.UsableAreaM2, origin)

	res := estimate.New(cfg.Solar.ToModelParams()).ComputeManual(estimate.ManualInput{
		Roof:    roof,
		Angles:  angles,
		Bill:    bill,
		Dataset: dataset,
	})
	return o.write(res, report.Meta{
		GeneratedAt: time.Now(),
		Location:    fmt.Sprintf("%.5f, %.5f", roof.Centroid.Lat, roof.Centroid.Lng),
		Angles:      angles,
	})
}

func cmdSegment(args []string) error {
	fs := flag.NewFlagSet("segment", flag.ExitOnError)
	var c common
	var b billFlags
	var o outputFlags
	c.register(fs)
	b.register(fs)
	o.register(fs)
	segmentPath := fs.String("segment", "", "Single segment JSON")
	insightsPath := fs.String("insights", "", "Building insights JSON (normalized or raw findClosest response)")
	segmentID := fs.String("segment-id", "", "Segment to pick from --insights (default: largest)")
	lat := fs.Float64("lat", 0, "Latitude (default: insights center)")
	lng := fs.Float64("lng", 0, "Longitude (default: insights center)")
	noDataset := fs.Bool("no-dataset", false, "Use only the segment's own energy figures")
	_ = fs.Parse(args)

	cfg, err := c.setup()
	if err != nil {
		return err
	}

	var seg model.SolarSegment
	loc := geo.LatLng{Lat: *lat, Lng: *lng}
	switch {
	case *segmentPath != "":
		raw, err := os.ReadFile(*segmentPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &seg); err != nil {
			return fmt.Errorf("parse %s: %w", *segmentPath, err)
		}
		if !fs.Changed("lat") {
			return fmt.Errorf("--lat is required with --segment")
		}
	case *insightsPath != "":
		insights, err := data.LoadInsights(*insightsPath)
		if err != nil {
			return err
		}
		var ok bool
		if *segmentID != "" {
			seg, ok = insights.Segment(*segmentID)
		} else {
			seg, ok = insights.DefaultSegment()
		}
		if !ok {
			return fmt.Errorf("no segment %q in %s", *segmentID, *insightsPath)
		}
		if !fs.Changed("lat") {
			loc = geo.LatLng{Lat: insights.Lat, Lng: insights.Lng}
		}
	default:
		return fmt.Errorf("--segment or --insights is required")
	}

	bill, err := b.bill()
	if err != nil {
		return err
	}

	var dataset []model.MonthlyIrradianceSample
	origin := "none"
	if !*noDataset {
		if dataset, origin, err = c.dataset(cfg, loc.Lat, loc.Lng); err != nil {
			return err
		}
	}
	fmt.Printf("Segment %s (pitch %.1f°, azimuth %.1f°, useful %.1f m²), dataset %s\n",
		seg.SegmentID, seg.PitchDegrees, seg.AzimuthDegrees, seg.UsefulAreaM2(), origin)

	res := estimate.New(cfg.Solar.ToModelParams()).ComputeSegment(estimate.SegmentInput{
		Segment:     seg,
		Bill:        bill,
		Dataset:     dataset,
		LatitudeDeg: loc.Lat,
	})
	return o.write(res, report.Meta{
		GeneratedAt: time.Now(),
		Location:    fmt.Sprintf("%.5f, %.5f", loc.Lat, loc.Lng),
		Angles:      seg.Angles(),
		SegmentID:   seg.SegmentID,
	})
}

func cmdRank(args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	var c common
	c.register(fs)
	insightsPath := fs.String("insights", "", "Building insights JSON")
	_ = fs.Parse(args)

	if *insightsPath == "" {
		return fmt.Errorf("--insights is required")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	insights, err := data.LoadInsights(*insightsPath)
	if err != nil {
		return err
	}
	dataset, _, err := c.dataset(cfg, insights.Lat, insights.Lng)
	if err != nil {
		return err
	}

	ranked := analysis.RankSegments(estimate.New(cfg.Solar.ToModelParams()), insights.Segments, dataset, insights.Lat)
	fmt.Printf("%-4s %-24s %-8s %-8s %-10s %-12s\n", "rank", "segment", "pitch", "azimuth", "area m2", "kWh/kWp/yr")
	for _, r := range ranked {
		fmt.Printf("%-4d %-24s %-8.1f %-8.1f %-10.1f %-12.1f\n",
			r.Rank,
			r.Segment.SegmentID,
			r.Segment.PitchDegrees,
			r.Segment.AzimuthDegrees,
			r.UsefulAreaM2,
			r.AnnualYield,
		)
	}
	return nil
}

func cmdSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	var c common
	c.register(fs)
	lat := fs.Float64("lat", 0, "Latitude")
	lng := fs.Float64("lng", 0, "Longitude")
	top := fs.Int("top", 10, "Rows to print (0 = all)")
	tiltStep := fs.Float64("tilt-step", 5, "Tilt step in degrees")
	azimuthStep := fs.Float64("azimuth-step", 45, "Azimuth step in degrees")
	_ = fs.Parse(args)

	if !fs.Changed("lat") || !fs.Changed("lng") {
		return fmt.Errorf("--lat and --lng are required")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	dataset, _, err := c.dataset(cfg, *lat, *lng)
	if err != nil {
		return err
	}

	grid := analysis.DefaultGrid()
	grid.TiltStep = *tiltStep
	grid.AzimuthStep = *azimuthStep
	sweep := analysis.SweepOrientations(estimate.New(cfg.Solar.ToModelParams()), dataset, *lat, grid)
	if *top > 0 && *top < len(sweep) {
		sweep = sweep[:*top]
	}

	fmt.Printf("%-6s %-8s %-12s %-8s\n", "tilt", "azimuth", "kWh/kWp/yr", "rel")
	for _, o := range sweep {
		fmt.Printf("%-6.1f %-8.1f %-12.1f %-8.3f\n", o.Angles.BetaDeg, o.Angles.GammaDeg, o.AnnualYield, o.RelativeToBest)
	}
	return nil
}

func printSummary(res model.Result) {
	s := res.Summary
	kwpMax := "unconstrained"
	if !s.Unconstrained() {
		kwpMax = fmt.Sprintf("%.2f", s.KwpMax)
	}
	fmt.Printf("Source=%s kWp=%.2f (max %s) capped=%v\n", res.Source, s.Kwp, kwpMax, res.DimensioningCapped)
	fmt.Printf("Annual generation=%.0f kWh (avg %.0f kWh/month)\n", s.AnnualGenerationKWh, s.AvgMonthlyGenerationKWh)
	fmt.Printf("Savings=R$%s/month R$%s/year at R$%s/kWh, target %.0f%%\n",
		report.Money(s.MonthlySavingsBRL).StringFixed(2),
		report.Money(s.AnnualSavingsBRL).StringFixed(2),
		report.Money(s.TariffApplied).StringFixed(2),
		s.CompensationTargetPct,
	)
}

func writeReport(path string, res model.Result, meta report.Meta, build func(model.Result, report.Meta) ([]byte, error)) error {
	raw, err := build(res, meta)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// parsePolygon reads "lat,lng;lat,lng;..." into points.
func parsePolygon(s string) ([]geo.LatLng, error) {
	parts := strings.Split(s, ";")
	out := make([]geo.LatLng, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		coords := strings.Split(p, ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("invalid point %q: want lat,lng", p)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", p, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", p, err)
		}
		out = append(out, geo.LatLng{Lat: lat, Lng: lng})
	}
	return out, nil
}
