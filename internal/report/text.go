package report

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stocklens/internal/analytics"
	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
)

// ModuleLines builds the report body for one module, one line per metric.
// A failed module gets a single line naming the condition.
func ModuleLines(module string, res *analytics.Results) []string {
	if err, failed := res.Failed(module); failed {
		return []string{fmt.Sprintf("Module skipped: %s [%s]", err.Detail, err.Kind)}
	}

	switch module {
	case analytics.ModuleDescriptive:
		return descriptiveLines(res.Descriptive)
	case analytics.ModulePerformance:
		return performanceLines(res.Performance)
	case analytics.ModuleTechnical:
		return technicalLines(res.Technical)
	case analytics.ModuleRisk:
		return riskLines(res.Risk)
	case analytics.ModuleTimeSeries:
		return timeSeriesLines(res.TimeSeries)
	case analytics.ModuleVolatility:
		return volatilityLines(res.Volatility)
	case analytics.ModulePredictive:
		return predictiveLines(res.Predictive)
	case analytics.ModuleStrategy:
		return strategyLines(res.Strategy)
	case analytics.ModuleSentiment:
		return sentimentLines(res.Sentiment)
	case analytics.ModuleRegime:
		return regimeLines(res.Regime)
	case analytics.ModuleCorrelation:
		return correlationLines(res.Correlation)
	}
	return nil
}

func descriptiveLines(d *analytics.Descriptive) []string {
	return []string{
		fmt.Sprintf("Data period: %s to %s",
			d.StartDate.Format("2006-01-02"), d.EndDate.Format("2006-01-02")),
		fmt.Sprintf("Total trading days: %s", formatCount(float64(d.Rows))),
		fmt.Sprintf("Average daily volume: %s", formatCount(d.VolumeMean)),
		fmt.Sprintf("Price range: %s - %s", formatMoney(d.LowMin), formatMoney(d.HighMax)),
		fmt.Sprintf("Average closing price: %s", formatMoney(d.CloseMean)),
		fmt.Sprintf("Closing price range: %s - %s", formatMoney(d.CloseMin), formatMoney(d.CloseMax)),
		fmt.Sprintf("Closing price std dev: %s", formatMoney(d.CloseStd)),
	}
}

func performanceLines(p *analytics.Performance) []string {
	return []string{
		fmt.Sprintf("Total return: %s", formatPercent(p.TotalReturn)),
		fmt.Sprintf("Annualized return: %s", formatPercent(p.AnnualizedReturn)),
		fmt.Sprintf("Annualized volatility: %s", formatPercent(p.AnnualizedVolatility)),
	}
}

func technicalLines(t *analytics.Technical) []string {
	lines := []string{
		fmt.Sprintf("Current price: %s", formatMoney(t.CurrentClose)),
	}

	windows := make([]int, 0, len(t.CurrentMA))
	for w := range t.CurrentMA {
		windows = append(windows, w)
	}
	sort.Ints(windows)
	for _, w := range windows {
		lines = append(lines, fmt.Sprintf("%d-day SMA: %s", w, formatMoney(t.CurrentMA[w])))
	}

	lines = append(lines,
		fmt.Sprintf("RSI (%d-day): %s", t.RSIWindow, formatRatio(t.CurrentRSI)),
		fmt.Sprintf("Signal: %s", t.Signal),
	)
	return lines
}

func riskLines(r *analytics.Risk) []string {
	sharpe := "undefined (zero volatility)"
	if r.SharpeDefined {
		sharpe = formatRatio(r.Sharpe)
	}
	return []string{
		fmt.Sprintf("Value at Risk (%.0f%% confidence, daily): %s",
			r.VaRConfidence*100, formatPercent(r.VaR)),
		fmt.Sprintf("Maximum drawdown: %s", formatPercent(r.MaxDrawdown)),
		fmt.Sprintf("Sharpe ratio: %s", sharpe),
	}
}

func timeSeriesLines(ts *analytics.TimeSeries) []string {
	lines := []string{
		fmt.Sprintf("Best performing month: %s (%s)", ts.BestMonth, formatPercent(ts.BestMean)),
		fmt.Sprintf("Worst performing month: %s (%s)", ts.WorstMonth, formatPercent(ts.WorstMean)),
		fmt.Sprintf("Years covered: %d", len(ts.Yearly)),
	}
	for _, y := range ts.Yearly {
		lines = append(lines, fmt.Sprintf("  %d: mean daily return %s over %d days",
			y.Year, formatPercent(y.Mean), y.Count))
	}
	return lines
}

func volatilityLines(v *analytics.Volatility) []string {
	condition := "NORMAL VOLATILITY"
	if v.HighVolatility {
		condition = "HIGH VOLATILITY"
	}
	return []string{
		fmt.Sprintf("Current %d-day volatility: %s", v.Window, formatPercent(v.Current)),
		fmt.Sprintf("Average volatility: %s", formatPercent(v.Average)),
		fmt.Sprintf("High volatility threshold (80th percentile): %s", formatPercent(v.HighThreshold)),
		fmt.Sprintf("Volatility cluster days (>%.1fx average): %d",
			analytics.ClusterThresholdMultiple, len(v.ClusterDates)),
		fmt.Sprintf("Rolling volatility lag-1 autocorrelation: %s", formatRatio(v.Lag1Autocorr)),
		fmt.Sprintf("Current market condition: %s", condition),
	}
}

func predictiveLines(p *analytics.Predictive) []string {
	signal := "none"
	switch p.CurrentSignal {
	case analytics.GoldenCross:
		signal = "GOLDEN CROSS - Bullish signal"
	case analytics.DeathCross:
		signal = "DEATH CROSS - Bearish signal"
	}

	lines := []string{
		fmt.Sprintf("%d-day SMA vs %d-day SMA trend: %s", p.ShortWindow, p.LongWindow, p.Trend),
		fmt.Sprintf("Crossover events detected: %d", len(p.Crossovers)),
		fmt.Sprintf("Current signal: %s", signal),
	}
	for _, c := range p.Crossovers {
		lines = append(lines, fmt.Sprintf("  %s: %s (short %s, long %s)",
			c.Date.Format("2006-01-02"), c.Type, formatMoney(c.ShortMA), formatMoney(c.LongMA)))
	}
	return lines
}

func strategyLines(st *analytics.Strategy) []string {
	verdict := "Buy & Hold BEATS Strategy"
	if st.StrategyBeats {
		verdict = "Strategy BEATS Buy & Hold"
	}
	return []string{
		fmt.Sprintf("Strategy: long when %d-day MA > %d-day MA, flat otherwise (one-day lag)",
			st.ShortWindow, st.LongWindow),
		fmt.Sprintf("Strategy total return: %s", formatPercent(st.StrategyReturn)),
		fmt.Sprintf("Buy & Hold return: %s", formatPercent(st.BuyHoldReturn)),
		fmt.Sprintf("Strategy outperformance: %s", formatPercent(st.Outperformance)),
		fmt.Sprintf("Days in market: %d of %d", st.DaysInMarket, st.TradingDays),
		fmt.Sprintf("Result: %s", verdict),
	}
}

func sentimentLines(s *analytics.Sentiment) []string {
	ratio := formatRatio(s.UpDownVolumeRatio)
	if math.IsInf(s.UpDownVolumeRatio, 1) {
		ratio = "undefined (no down-day volume)"
	}

	note := ""
	switch s.Signal {
	case analytics.SignalBullish:
		note = " (more volume on up days)"
	case analytics.SignalBearish:
		note = " (more volume on down days)"
	}

	return []string{
		fmt.Sprintf("Current/Average volume ratio: %s", formatRatio(s.VolumeRatio)),
		fmt.Sprintf("Average return on high-volume days: %s", formatPercent(s.HighVolumeReturn)),
		fmt.Sprintf("Up/Down volume ratio: %s", ratio),
		fmt.Sprintf("Sentiment: %s%s", s.Signal, note),
	}
}

func regimeLines(r *analytics.Regime) []string {
	regime := "BEAR MARKET"
	if r.Bull {
		regime = "BULL MARKET"
	}
	return []string{
		fmt.Sprintf("Current price: %s", formatMoney(r.CurrentClose)),
		fmt.Sprintf("%d-day SMA: %s", r.Window, formatMoney(r.CurrentSMA)),
		fmt.Sprintf("Current regime: %s", regime),
		fmt.Sprintf("Historical bull market days: %.1f%%", r.BullPct*100),
		fmt.Sprintf("Historical bear market days: %.1f%%", r.BearPct*100),
	}
}

func correlationLines(c *analytics.Correlation) []string {
	relationship := "Weak price-volume relationship"
	if c.Strong {
		relationship = "Strong price-volume relationship detected"
	}
	return []string{
		fmt.Sprintf("Daily return vs volume change correlation: %s", formatCorrelation(c.ReturnVolumeChange)),
		fmt.Sprintf("Daily return vs volume level correlation: %s", formatCorrelation(c.ReturnVolumeLevel)),
		fmt.Sprintf("Return autocorrelation (1-day lag): %s", formatCorrelation(c.ReturnAutocorr)),
		fmt.Sprintf("Volume change autocorrelation (1-day lag): %s", formatCorrelation(c.VolumeAutocorr)),
		relationship,
	}
}

// TextWriter writes per-module text reports and the consolidated summary.
type TextWriter struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewTextWriter creates a TextWriter. A nil logger falls back to slog.Default.
func NewTextWriter(cfg *config.Config, logger *slog.Logger) *TextWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextWriter{cfg: cfg, logger: logger}
}

// WriteAll writes one text report per module plus SUMMARY_REPORT.txt into the
// output directory.
func (w *TextWriter) WriteAll(res *analytics.Results) error {
	if err := w.cfg.EnsureOutputDirs(); err != nil {
		return apperrors.NewRenderError("text", w.cfg.Data.OutputDir, err)
	}

	for _, module := range analytics.ModuleOrder {
		path := filepath.Join(w.cfg.Data.OutputDir, fileStem(module)+".txt")

		var b strings.Builder
		fmt.Fprintf(&b, "=== %s REPORT ===\n", analytics.ModuleTitles[module])
		for _, line := range ModuleLines(module, res) {
			b.WriteString(line)
			b.WriteByte('\n')
		}

		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return apperrors.NewRenderError("text", path, err)
		}
		w.logger.Debug("wrote text report", "module", module, "path", path)
	}

	return w.writeSummary(res)
}

func (w *TextWriter) writeSummary(res *analytics.Results) error {
	var b strings.Builder
	b.WriteString("BUSINESS ANALYTICS SUMMARY REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Run ID: %s\n", res.RunID)
	fmt.Fprintf(&b, "Generated on: %s\n", res.GeneratedAt.Format("2006-01-02 15:04:05"))
	if res.Descriptive != nil {
		fmt.Fprintf(&b, "Data analyzed: %s trading days\n", formatCount(float64(res.Descriptive.Rows)))
		fmt.Fprintf(&b, "Date range: %s to %s\n",
			res.Descriptive.StartDate.Format("2006-01-02"),
			res.Descriptive.EndDate.Format("2006-01-02"))
	}
	b.WriteString("\nReports Generated:\n")
	for i, module := range analytics.ModuleOrder {
		status := ""
		if _, failed := res.Failed(module); failed {
			status = " (skipped: insufficient data)"
		}
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, analytics.ModuleTitles[module], status)
	}
	b.WriteString("\nFiles Generated:\n")
	for _, module := range analytics.ModuleOrder {
		fmt.Fprintf(&b, "- %s.txt\n", fileStem(module))
		fmt.Fprintf(&b, "- charts/%s.png\n", fileStem(module))
	}
	b.WriteString("- SUMMARY_REPORT.txt\n")

	path := filepath.Join(w.cfg.Data.OutputDir, "SUMMARY_REPORT.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return apperrors.NewRenderError("text", path, err)
	}
	w.logger.Info("wrote summary report", "path", path)
	return nil
}
