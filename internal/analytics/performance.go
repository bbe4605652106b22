package analytics

import (
	"fmt"
	"math"
	"time"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// Performance holds return and volatility metrics plus the cumulative-return
// series used for charting.
type Performance struct {
	TotalReturn          float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64

	CumulativeDates   []time.Time
	CumulativeReturns []float64 // growth of 1 unit of capital
}

// ComputePerformance computes total and annualized performance. Fewer than
// two rows makes the annualized metrics undefined and fails the module
// rather than producing NaN silently.
func ComputePerformance(s *series.PriceSeries, cfg config.AnalyticsConfig) (*Performance, error) {
	n := s.Len()
	if n < 2 {
		return nil, apperrors.NewAnalysisError(ModulePerformance, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least 2 rows for annualized metrics, got %d", n))
	}

	rets := s.Returns()
	cumulative := series.CumulativeReturns(rets.Returns)

	totalReturn := cumulative[len(cumulative)-1] - 1
	annualized := math.Pow(1+totalReturn, float64(cfg.TradingDaysPerYear)/float64(n)) - 1
	volatility := series.Std(rets.Returns) * math.Sqrt(float64(cfg.TradingDaysPerYear))
	if math.IsNaN(volatility) {
		// A 2-row series has a single return; its dispersion is zero, not
		// unknown.
		volatility = 0
	}

	return &Performance{
		TotalReturn:          totalReturn,
		AnnualizedReturn:     annualized,
		AnnualizedVolatility: volatility,
		CumulativeDates:      rets.Dates,
		CumulativeReturns:    cumulative,
	}, nil
}
