// Package report renders an estimate as a downloadable PDF or XLSX document.
package report

import (
	"fmt"
	"time"

	"pv-estimator/internal/model"

	"github.com/shopspring/decimal"
)

// Meta is the context printed above the numbers.
type Meta struct {
	ID          string
	Title       string
	GeneratedAt time.Time
	Location    string
	Angles      model.Angles
	SegmentID   string
}

func (m Meta) title() string {
	if m.Title != "" {
		return m.Title
	}
	return "Estimativa de geração fotovoltaica"
}

// Money rounds a BRL amount half-away-from-zero to cents.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func formatBRL(v float64) string {
	return "R$ " + Money(v).StringFixed(2)
}

func formatKwpMax(s model.YearSummary) string {
	if s.Unconstrained() {
		return "sem limite"
	}
	return fmt.Sprintf("%.2f", s.KwpMax)
}

type summaryLine struct {
	label string
	value string
}

func summaryLines(res model.Result, meta Meta) []summaryLine {
	s := res.Summary
	lines := []summaryLine{
		{"Fonte dos dados", string(res.Source)},
	}
	if meta.Location != "" {
		lines = append(lines, summaryLine{"Local", meta.Location})
	}
	if meta.SegmentID != "" {
		lines = append(lines, summaryLine{"Segmento", meta.SegmentID})
	}
	lines = append(lines,
		summaryLine{"Inclinação / azimute (°)", fmt.Sprintf("%.1f / %.1f", meta.Angles.BetaDeg, meta.Angles.GammaDeg)},
		summaryLine{"Potência recomendada (kWp)", fmt.Sprintf("%.2f", s.Kwp)},
		summaryLine{"Potência máxima do telhado (kWp)", formatKwpMax(s)},
		summaryLine{"Geração anual (kWh)", fmt.Sprintf("%.0f", s.AnnualGenerationKWh)},
		summaryLine{"Geração média mensal (kWh)", fmt.Sprintf("%.0f", s.AvgMonthlyGenerationKWh)},
		summaryLine{"Economia mensal", formatBRL(s.MonthlySavingsBRL)},
		summaryLine{"Economia anual", formatBRL(s.AnnualSavingsBRL)},
		summaryLine{"Tarifa aplicada (R$/kWh)", Money(s.TariffApplied).StringFixed(2)},
		summaryLine{"Meta de compensação (%)", fmt.Sprintf("%.0f", s.CompensationTargetPct)},
	)
	if res.DimensioningCapped {
		lines = append(lines, summaryLine{"Observação", "Sistema limitado pela área disponível do telhado"})
	}
	return lines
}

var monthHeaders = []string{
	"Mês", "HPOA (kWh/m²)", "Yield (kWh/kWp)", "Geração (kWh)", "Economia (R$)", "Mín (kWh)", "Máx (kWh)",
}
