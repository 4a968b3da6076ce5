package data

import (
	"fmt"

	"pv-estimator/internal/config"
)

// NewClients builds both provider clients from configuration. A configured
// mock dataset replaces the built-in fallback climatology.
func NewClients(p config.ProvidersConfig) (*NasaPowerClient, *SolarAPIClient, error) {
	opts := ClientOptions{
		CacheTTL:          p.CacheTTL,
		RequestsPerSecond: p.RequestsPerSecond,
	}

	nasa := NewNasaPowerClient(p.NasaPower.BaseURL, p.NasaPower.Start, p.NasaPower.End, opts)
	if path := p.NasaPower.MockDatasetPath; path != "" {
		ds, err := LoadDataset(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load mock dataset %s: %w", path, err)
		}
		nasa.WithMock(ds.Samples)
	}

	solar := NewSolarAPIClient(p.SolarAPI.APIKey, p.SolarAPI.BaseURL, opts)
	return nasa, solar, nil
}
