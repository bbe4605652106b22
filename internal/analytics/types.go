// Package analytics implements the analytics modules. Each module is a pure
// function of an immutable PriceSeries plus the run configuration;
// composition is "run them all against the same series", which the Runner
// does in parallel.
package analytics

import (
	"time"

	apperrors "stocklens/internal/errors"
)

// Module names, used in error messages, log lines and output file names.
const (
	ModuleDescriptive = "descriptive"
	ModulePerformance = "performance"
	ModuleTechnical   = "technical"
	ModuleRisk        = "risk"
	ModuleTimeSeries  = "timeseries"
	ModuleVolatility  = "volatility"
	ModulePredictive  = "predictive"
	ModuleStrategy    = "strategy"
	ModuleSentiment   = "sentiment"
	ModuleRegime      = "regime"
	ModuleCorrelation = "correlation"
)

// ModuleOrder is the canonical report ordering. These eight modules get
// text, chart and Excel output.
var ModuleOrder = []string{
	ModuleDescriptive,
	ModulePerformance,
	ModuleTechnical,
	ModuleRisk,
	ModuleTimeSeries,
	ModuleVolatility,
	ModulePredictive,
	ModuleStrategy,
}

// ConsoleOrder extends ModuleOrder with the console-only diagnostic modules.
var ConsoleOrder = append(append([]string{}, ModuleOrder...),
	ModuleSentiment,
	ModuleRegime,
	ModuleCorrelation,
)

// ModuleTitles maps module names to report headings.
var ModuleTitles = map[string]string{
	ModuleDescriptive: "DESCRIPTIVE ANALYTICS",
	ModulePerformance: "PERFORMANCE ANALYTICS",
	ModuleTechnical:   "TECHNICAL ANALYTICS",
	ModuleRisk:        "RISK ANALYTICS",
	ModuleTimeSeries:  "TIME SERIES ANALYTICS",
	ModuleVolatility:  "VOLATILITY ANALYTICS",
	ModulePredictive:  "PREDICTIVE ANALYTICS",
	ModuleStrategy:    "TRADING STRATEGY ANALYTICS",
	ModuleSentiment:   "MARKET SENTIMENT ANALYTICS",
	ModuleRegime:      "MARKET REGIME ANALYTICS",
	ModuleCorrelation: "CORRELATION ANALYTICS",
}

// Signal is a directional market reading.
type Signal string

const (
	SignalBullish Signal = "BULLISH"
	SignalBearish Signal = "BEARISH"
	SignalNeutral Signal = "NEUTRAL"
)

// CrossoverType distinguishes golden from death crosses.
type CrossoverType string

const (
	GoldenCross CrossoverType = "GOLDEN_CROSS"
	DeathCross  CrossoverType = "DEATH_CROSS"
)

// Crossover is one detected moving-average crossover event.
type Crossover struct {
	Date    time.Time
	Type    CrossoverType
	ShortMA float64
	LongMA  float64
}

// Results aggregates every module's output for one run. A nil module pointer
// means that module failed; the corresponding AnalysisError is in Errors.
type Results struct {
	RunID       string
	GeneratedAt time.Time

	Descriptive *Descriptive
	Performance *Performance
	Technical   *Technical
	Risk        *Risk
	TimeSeries  *TimeSeries
	Volatility  *Volatility
	Predictive  *Predictive
	Strategy    *Strategy
	Sentiment   *Sentiment
	Regime      *Regime
	Correlation *Correlation

	Errors map[string]*apperrors.AnalysisError
}

// Failed reports whether the named module failed, with its error.
func (r *Results) Failed(module string) (*apperrors.AnalysisError, bool) {
	err, ok := r.Errors[module]
	return err, ok
}
