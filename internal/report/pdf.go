package report

import (
	"bytes"
	"fmt"
	"time"

	"pv-estimator/internal/model"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders the summary and the monthly table on one A4 page.
func BuildPDF(res model.Result, meta Meta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, tr(meta.title()))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	if meta.ID != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Estimativa: %s", meta.ID)))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Gerado em: %s", generated.Format(time.RFC3339))))
	pdf.Ln(8)

	for _, line := range summaryLines(res, meta) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(75, 6, tr(line.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(line.value), "", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	widths := []float64{18, 28, 28, 28, 28, 28, 28}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range monthHeaders {
		pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, m := range res.Monthly {
		cells := []string{
			m.Month,
			fmt.Sprintf("%.1f", m.HPOA),
			fmt.Sprintf("%.1f", m.SpecificYield),
			fmt.Sprintf("%.0f", m.EnergyKWh),
			Money(m.SavingsBRL).StringFixed(2),
			fmt.Sprintf("%.0f", m.UncertaintyLow),
			fmt.Sprintf("%.0f", m.UncertaintyHigh),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
