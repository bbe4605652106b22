// Package report renders analytics results to the console, to text files,
// to PNG charts and to styled Excel workbooks. The numeric content is
// identical across renderers; only presentation differs.
package report

import (
	"fmt"
	"math"
	"strings"

	"stocklens/internal/analytics"
)

// fileStems are the numbered output file names, shared by the text, chart
// and Excel renderers.
var fileStems = map[string]string{
	analytics.ModuleDescriptive: "01_descriptive_analytics",
	analytics.ModulePerformance: "02_performance_analytics",
	analytics.ModuleTechnical:   "03_technical_analytics",
	analytics.ModuleRisk:        "04_risk_analytics",
	analytics.ModuleTimeSeries:  "05_time_series_analytics",
	analytics.ModuleVolatility:  "06_volatility_analytics",
	analytics.ModulePredictive:  "07_predictive_analytics",
	analytics.ModuleStrategy:    "08_trading_strategy_analytics",
}

func fileStem(module string) string {
	if stem, ok := fileStems[module]; ok {
		return stem
	}
	return module
}

// formatPercent renders a fraction as "12.34%". NaN becomes "n/a".
func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// formatMoney renders a price as "$123.45". NaN becomes "n/a".
func formatMoney(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", v)
}

// formatRatio renders a dimensionless ratio with 2 decimals.
func formatRatio(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// formatCorrelation renders a correlation coefficient with 3 decimals.
func formatCorrelation(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

// formatCount renders an integer-valued float with thousands separators.
func formatCount(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return groupThousands(fmt.Sprintf("%.0f", v))
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
