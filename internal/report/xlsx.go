package report

import (
	"bytes"
	"fmt"

	"pv-estimator/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Resumo"
	monthlySheet = "Mensal"
)

// BuildXLSX writes a workbook with a summary sheet and a monthly sheet.
// Numeric cells stay numeric; money is rounded to cents.
func BuildXLSX(res model.Result, meta Meta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", meta.title())
	if meta.ID != "" {
		_ = f.SetCellValue(summarySheet, "A2", "Estimativa")
		_ = f.SetCellValue(summarySheet, "B2", meta.ID)
	}
	for i, line := range summaryLines(res, meta) {
		row := i + 4
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), line.label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), line.value)
	}

	for i, h := range monthHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(monthlySheet, cell, h)
	}
	for i, m := range res.Monthly {
		row := i + 2
		values := []any{
			m.Month,
			m.HPOA,
			m.SpecificYield,
			m.EnergyKWh,
			Money(m.SavingsBRL).InexactFloat64(),
			m.UncertaintyLow,
			m.UncertaintyHigh,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(monthlySheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
