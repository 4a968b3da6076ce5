package estimate

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"pv-estimator/internal/model"
)

var monthlyHeader = []string{
	"month",
	"ghi_kwh_m2",
	"dhi_kwh_m2",
	"dni_kwh_m2",
	"hpoa_kwh_m2",
	"specific_yield_kwh_kwp",
	"energy_kwh",
	"savings_brl",
	"uncertainty_low_kwh",
	"uncertainty_high_kwh",
}

// WriteMonthlyCSV writes one row per month of res.
func WriteMonthlyCSV(out io.Writer, res model.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(monthlyHeader); err != nil {
		return err
	}
	for _, m := range res.Monthly {
		row := []string{
			m.Month,
			fmtFloat(m.GHI),
			fmtFloat(m.DHI),
			fmtFloat(m.DNI),
			fmtFloat(m.HPOA),
			fmtFloat(m.SpecificYield),
			fmtFloat(m.EnergyKWh),
			fmtFloat(m.SavingsBRL),
			fmtFloat(m.UncertaintyLow),
			fmtFloat(m.UncertaintyHigh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteMonthlyCSVFile writes the CSV to path, creating parent directories.
func WriteMonthlyCSVFile(path string, res model.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteMonthlyCSV(f, res)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
