package analytics

import (
	"fmt"
	"math"
	"time"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// Risk holds Value-at-Risk, drawdown and the risk-adjusted return.
type Risk struct {
	// VaR is the daily return quantile at the configured confidence level,
	// linear-interpolated between order statistics. Typically negative.
	VaR           float64
	VaRConfidence float64

	MaxDrawdown   float64 // <= 0 always
	DrawdownDates []time.Time
	Drawdowns     []float64

	// Sharpe is (annualized return - risk-free rate) / annualized
	// volatility. SharpeDefined is false when volatility is zero; the ratio
	// is then reported as undefined instead of dividing by zero.
	Sharpe        float64
	SharpeDefined bool
	SharpeErr     *apperrors.AnalysisError
}

// ComputeRisk computes VaR, maximum drawdown and the Sharpe ratio.
func ComputeRisk(s *series.PriceSeries, cfg config.AnalyticsConfig) (*Risk, error) {
	if s.Len() < 2 {
		return nil, apperrors.NewAnalysisError(ModuleRisk, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least 2 rows for a return distribution, got %d", s.Len()))
	}

	rets := s.Returns()

	// 95% confidence means the 5th percentile of the return distribution.
	varValue := series.Percentile(rets.Returns, (1-cfg.VaRConfidence)*100)

	cumulative := series.CumulativeReturns(rets.Returns)
	drawdowns := make([]float64, len(cumulative))
	peak := cumulative[0]
	maxDD := 0.0
	for i, v := range cumulative {
		if v > peak {
			peak = v
		}
		drawdowns[i] = (v - peak) / peak
		if drawdowns[i] < maxDD {
			maxDD = drawdowns[i]
		}
	}

	r := &Risk{
		VaR:           varValue,
		VaRConfidence: cfg.VaRConfidence,
		MaxDrawdown:   maxDD,
		DrawdownDates: rets.Dates,
		Drawdowns:     drawdowns,
	}

	perf, err := ComputePerformance(s, cfg)
	if err != nil {
		return nil, err
	}

	if perf.AnnualizedVolatility == 0 || math.IsNaN(perf.AnnualizedVolatility) {
		r.SharpeDefined = false
		r.SharpeErr = apperrors.NewAnalysisError(ModuleRisk, apperrors.KindDivisionByZero,
			"annualized volatility is zero, Sharpe ratio undefined")
	} else {
		r.Sharpe = (perf.AnnualizedReturn - cfg.RiskFreeRate) / perf.AnnualizedVolatility
		r.SharpeDefined = true
	}

	return r, nil
}
