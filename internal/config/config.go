package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pv-estimator/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load solar parameters from a separate YAML (e.g. examples/params/*.yaml).
	// If both ParamsFile and Solar are provided, Solar overrides ParamsFile.
	ParamsFile string          `yaml:"params_file"`
	Solar      SolarConfig     `yaml:"solar"`
	Server     ServerConfig    `yaml:"server"`
	Providers  ProvidersConfig `yaml:"providers"`
}

type SolarConfig struct {
	PerformanceRatio             float64  `yaml:"performance_ratio"`
	Albedo                       float64  `yaml:"albedo"`
	KwpPerSquareMeter            float64  `yaml:"kwp_per_square_meter"`
	PanelWp                      float64  `yaml:"panel_wp"`
	PanelAreaM2                  float64  `yaml:"panel_area_m2"`
	DefaultTariffBRLkWh          float64  `yaml:"default_tariff_brl_kwh"`
	CompensationTargetDefaultPct float64  `yaml:"compensation_target_default_pct"`
	UncertaintyPct               float64  `yaml:"uncertainty_pct"`
	TiltRangeDeg                 RangeDeg `yaml:"tilt_range_deg"`
	AzimuthRangeDeg              RangeDeg `yaml:"azimuth_range_deg"`
	DefaultTiltDeg               float64  `yaml:"default_tilt_deg"`
	DefaultAzimuthDeg            float64  `yaml:"default_azimuth_deg"`
}

type RangeDeg struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	Env         string   `yaml:"env"`
	StaticDir   string   `yaml:"static_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
	// ResultTTL is how long computed estimates stay retrievable for export.
	ResultTTL time.Duration `yaml:"result_ttl"`
}

type ProvidersConfig struct {
	NasaPower NasaPowerConfig `yaml:"nasa_power"`
	SolarAPI  SolarAPIConfig  `yaml:"solar_api"`
	CacheTTL  time.Duration   `yaml:"cache_ttl"`
	// RequestsPerSecond throttles each outbound provider client.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type NasaPowerConfig struct {
	BaseURL string `yaml:"base_url"`
	// Start/End are YYYYMM bounds of the climatology window.
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	// MockDatasetPath is served when the live API fails. Empty uses the built-in climatology.
	MockDatasetPath string `yaml:"mock_dataset_path"`
}

type SolarAPIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Solar: SolarConfig{
			PerformanceRatio:             0.8,
			Albedo:                       0.2,
			KwpPerSquareMeter:            0.2,
			PanelWp:                      550,
			PanelAreaM2:                  2.0,
			DefaultTariffBRLkWh:          1.0,
			CompensationTargetDefaultPct: 90,
			UncertaintyPct:               0.12,
			TiltRangeDeg:                 RangeDeg{Min: 14, Max: 22},
			AzimuthRangeDeg:              RangeDeg{Min: 0, Max: 360},
			DefaultTiltDeg:               18,
			DefaultAzimuthDeg:            0,
		},
		Server: ServerConfig{
			Port:      "8080",
			Env:       "development",
			StaticDir: "./web/dist",
			ResultTTL: time.Hour,
		},
		Providers: ProvidersConfig{
			NasaPower: NasaPowerConfig{
				BaseURL: "https://power.larc.nasa.gov",
				Start:   "199101",
				End:     "202412",
			},
			SolarAPI: SolarAPIConfig{
				BaseURL: "https://solar.googleapis.com",
			},
			CacheTTL:          24 * time.Hour,
			RequestsPerSecond: 2,
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config over Default, but does not validate it.
// An empty path returns the defaults.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return nil, err
	}
	// If params_file is set, load it and merge in any explicit overrides from the main file.
	if fileCfg.ParamsFile != "" {
		paramsPath := fileCfg.ParamsFile
		if !filepath.IsAbs(paramsPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), paramsPath)
			if _, err := os.Stat(cand); err == nil {
				paramsPath = cand
			}
		}
		loaded, err := loadParamsFile(paramsPath)
		if err != nil {
			return nil, err
		}
		fileCfg.Solar = MergeSolar(loaded, fileCfg.Solar)
	}

	c.ParamsFile = fileCfg.ParamsFile
	c.Solar = MergeSolar(c.Solar, fileCfg.Solar)
	c.Server = mergeServer(c.Server, fileCfg.Server)
	c.Providers = mergeProviders(c.Providers, fileCfg.Providers)
	return c, nil
}

// ApplyEnv overlays environment variables. Numeric overrides only apply when
// they parse to a positive number.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("SOLAR_API_KEY"); v != "" {
		c.Providers.SolarAPI.APIKey = v
	}
	if v, ok := envPositive("DEFAULT_TARIFF"); ok {
		c.Solar.DefaultTariffBRLkWh = v
	}
	if v, ok := envPositive("SPECIFIC_KWP_PER_M2"); ok {
		c.Solar.KwpPerSquareMeter = v
	}
}

func envPositive(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !model.IsPositive(v) {
		return 0, false
	}
	return v, true
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Solar.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("solar config invalid: %w", err)
	}
	t := c.Solar.TiltRangeDeg
	if t.Min < 0 || t.Max > 90 || t.Min > t.Max {
		return errors.New("solar.tilt_range_deg must satisfy 0<=min<=max<=90")
	}
	if c.Solar.DefaultTiltDeg < 0 || c.Solar.DefaultTiltDeg > 90 {
		return errors.New("solar.default_tilt_deg must be within [0, 90]")
	}
	if c.Providers.NasaPower.BaseURL == "" {
		return errors.New("providers.nasa_power.base_url is required")
	}
	if c.Providers.RequestsPerSecond < 0 {
		return errors.New("providers.requests_per_second must be >= 0")
	}
	return nil
}

func (s SolarConfig) ToModelParams() model.SolarParams {
	return model.SolarParams{
		PerformanceRatio:             s.PerformanceRatio,
		Albedo:                       s.Albedo,
		KwpPerSquareMeter:            s.KwpPerSquareMeter,
		PanelWp:                      s.PanelWp,
		PanelAreaM2:                  s.PanelAreaM2,
		DefaultTariffBRLkWh:          s.DefaultTariffBRLkWh,
		CompensationTargetDefaultPct: s.CompensationTargetDefaultPct,
		UncertaintyPct:               s.UncertaintyPct,
	}
}

// DefaultAngles are the angles offered before the user adjusts anything.
func (s SolarConfig) DefaultAngles() model.Angles {
	return model.Angles{BetaDeg: s.DefaultTiltDeg, GammaDeg: s.DefaultAzimuthDeg}
}

type paramsFileWrapper struct {
	Solar SolarConfig `yaml:"solar"`
}

func loadParamsFile(path string) (SolarConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SolarConfig{}, err
	}
	var w paramsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SolarConfig{}, err
	}
	return w.Solar, nil
}

// MergeSolar overlays non-zero fields from override onto base.
// Albedo and DefaultAzimuthDeg may legitimately be 0, so a 0 override cannot
// reset them; set a tiny value instead.
func MergeSolar(base, override SolarConfig) SolarConfig {
	out := base
	if override.PerformanceRatio != 0 {
		out.PerformanceRatio = override.PerformanceRatio
	}
	if override.Albedo != 0 {
		out.Albedo = override.Albedo
	}
	if override.KwpPerSquareMeter != 0 {
		out.KwpPerSquareMeter = override.KwpPerSquareMeter
	}
	if override.PanelWp != 0 {
		out.PanelWp = override.PanelWp
	}
	if override.PanelAreaM2 != 0 {
		out.PanelAreaM2 = override.PanelAreaM2
	}
	if override.DefaultTariffBRLkWh != 0 {
		out.DefaultTariffBRLkWh = override.DefaultTariffBRLkWh
	}
	if override.CompensationTargetDefaultPct != 0 {
		out.CompensationTargetDefaultPct = override.CompensationTargetDefaultPct
	}
	if override.UncertaintyPct != 0 {
		out.UncertaintyPct = override.UncertaintyPct
	}
	if override.TiltRangeDeg != (RangeDeg{}) {
		out.TiltRangeDeg = override.TiltRangeDeg
	}
	if override.AzimuthRangeDeg != (RangeDeg{}) {
		out.AzimuthRangeDeg = override.AzimuthRangeDeg
	}
	if override.DefaultTiltDeg != 0 {
		out.DefaultTiltDeg = override.DefaultTiltDeg
	}
	if override.DefaultAzimuthDeg != 0 {
		out.DefaultAzimuthDeg = override.DefaultAzimuthDeg
	}
	return out
}

func mergeServer(base, override ServerConfig) ServerConfig {
	out := base
	if override.Port != "" {
		out.Port = override.Port
	}
	if override.Env != "" {
		out.Env = override.Env
	}
	if override.StaticDir != "" {
		out.StaticDir = override.StaticDir
	}
	if len(override.CORSOrigins) > 0 {
		out.CORSOrigins = override.CORSOrigins
	}
	if override.ResultTTL != 0 {
		out.ResultTTL = override.ResultTTL
	}
	return out
}

func mergeProviders(base, override ProvidersConfig) ProvidersConfig {
	out := base
	if override.NasaPower.BaseURL != "" {
		out.NasaPower.BaseURL = override.NasaPower.BaseURL
	}
	if override.NasaPower.Start != "" {
		out.NasaPower.Start = override.NasaPower.Start
	}
	if override.NasaPower.End != "" {
		out.NasaPower.End = override.NasaPower.End
	}
	if override.NasaPower.MockDatasetPath != "" {
		out.NasaPower.MockDatasetPath = override.NasaPower.MockDatasetPath
	}
	if override.SolarAPI.BaseURL != "" {
		out.SolarAPI.BaseURL = override.SolarAPI.BaseURL
	}
	if override.SolarAPI.APIKey != "" {
		out.SolarAPI.APIKey = override.SolarAPI.APIKey
	}
	if override.CacheTTL != 0 {
		out.CacheTTL = override.CacheTTL
	}
	if override.RequestsPerSecond != 0 {
		out.RequestsPerSecond = override.RequestsPerSecond
	}
	return out
}
