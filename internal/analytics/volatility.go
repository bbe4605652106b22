package analytics

import (
	"fmt"
	"math"
	"time"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// ClusterThresholdMultiple is the fixed volatility-clustering rule: an index
// is part of a cluster when its rolling volatility exceeds this multiple of
// the rolling series' full-sample mean.
const ClusterThresholdMultiple = 1.5

// Volatility holds the rolling volatility series and the clustering read.
type Volatility struct {
	Window int

	Dates   []time.Time
	Rolling []float64 // annualized, NaN before the window fills

	Current       float64
	Average       float64 // mean over the defined portion
	HighThreshold float64 // 80th percentile of the defined portion

	// Clustering diagnostics: dates where rolling volatility exceeds
	// ClusterThresholdMultiple x Average, plus the lag-1 autocorrelation of
	// the rolling series.
	ClusterDates   []time.Time
	Lag1Autocorr   float64
	HighVolatility bool // latest value above HighThreshold
}

// ComputeVolatility computes the trailing rolling volatility of daily
// returns, annualized by sqrt(trading days per year).
func ComputeVolatility(s *series.PriceSeries, cfg config.AnalyticsConfig) (*Volatility, error) {
	rets := s.Returns()
	if rets.Len() < cfg.VolatilityWindow {
		return nil, apperrors.NewAnalysisError(ModuleVolatility, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least %d returns for a %d-day window, got %d",
				cfg.VolatilityWindow, cfg.VolatilityWindow, rets.Len()))
	}

	annualize := math.Sqrt(float64(cfg.TradingDaysPerYear))
	rolling := series.RollingStd(rets.Returns, cfg.VolatilityWindow)
	var defined []float64
	for i, v := range rolling {
		if !math.IsNaN(v) {
			rolling[i] = v * annualize
			defined = append(defined, rolling[i])
		}
	}

	v := &Volatility{
		Window:        cfg.VolatilityWindow,
		Dates:         rets.Dates,
		Rolling:       rolling,
		Current:       rolling[len(rolling)-1],
		Average:       series.Mean(defined),
		HighThreshold: series.Percentile(defined, 80),
		Lag1Autocorr:  series.Autocorrelation(rolling, 1),
	}
	v.HighVolatility = v.Current > v.HighThreshold

	threshold := ClusterThresholdMultiple * v.Average
	for i, r := range rolling {
		if !math.IsNaN(r) && r > threshold {
			v.ClusterDates = append(v.ClusterDates, rets.Dates[i])
		}
	}

	return v, nil
}
