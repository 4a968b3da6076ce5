package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"pv-estimator/internal/model"
)

// LoadDataset reads a monthly irradiance dataset from disk. Either an
// IrradianceDataset object or a bare array of samples is accepted.
func LoadDataset(path string) (*IrradianceDataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var samples []model.MonthlyIrradianceSample
		if err := json.Unmarshal(raw, &samples); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := model.ValidateDataset(samples); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &IrradianceDataset{Origin: "FILE", Samples: samples}, nil
	}

	var ds IrradianceDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := model.ValidateDataset(ds.Samples); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ds, nil
}

// SaveDataset writes a dataset as indented JSON.
func SaveDataset(path string, ds *IrradianceDataset) error {
	return writeJSON(path, ds)
}

// LoadInsights reads a building-insights document. Raw findClosest
// responses (carrying solarPotential) are normalized on the way in.
func LoadInsights(path string) (*model.BuildingInsights, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, ok := probe["solarPotential"]; ok {
		return ParseBuildingInsights(raw)
	}

	var insights model.BuildingInsights
	if err := json.Unmarshal(raw, &insights); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if insights.CoverageQuality == "" {
		insights.CoverageQuality = model.CoverageUnknown
	}
	return &insights, nil
}

// SaveInsights writes normalized building insights as indented JSON.
func SaveInsights(path string, insights *model.BuildingInsights) error {
	return writeJSON(path, insights)
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
