package analytics

import (
	"fmt"
	"math"
	"time"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// Strategy holds the moving-average-crossover backtest against buy-and-hold.
type Strategy struct {
	ShortWindow int
	LongWindow  int

	StrategyReturn float64
	BuyHoldReturn  float64
	Outperformance float64
	StrategyBeats  bool
	DaysInMarket   int
	TradingDays    int

	Dates              []time.Time
	StrategyCumulative []float64
	BuyHoldCumulative  []float64
}

// ComputeStrategy backtests the crossover strategy: long when the short MA is
// above the long MA, flat otherwise. Today's position is decided from
// yesterday's closing averages and applied to today's return; the one-day lag
// is what keeps the backtest free of look-ahead bias.
func ComputeStrategy(s *series.PriceSeries, cfg config.AnalyticsConfig) (*Strategy, error) {
	if s.Len() < 2 {
		return nil, apperrors.NewAnalysisError(ModuleStrategy, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least 2 rows to backtest, got %d", s.Len()))
	}

	closes := s.Closes()
	shortMA := series.SMA(closes, cfg.StrategyShortWindow)
	longMA := series.SMA(closes, cfg.StrategyLongWindow)
	rets := s.Returns()

	// position[i] is the stance held during return i (price index i+1),
	// decided from the averages at price index i.
	strategyRets := make([]float64, rets.Len())
	daysLong := 0
	for i := 0; i < rets.Len(); i++ {
		prior := i // price index of the prior day
		long := !math.IsNaN(shortMA[prior]) && !math.IsNaN(longMA[prior]) &&
			shortMA[prior] > longMA[prior]
		if long {
			strategyRets[i] = rets.Returns[i]
			daysLong++
		}
	}

	strategyCum := series.CumulativeReturns(strategyRets)
	buyHoldCum := series.CumulativeReturns(rets.Returns)

	st := &Strategy{
		ShortWindow:        cfg.StrategyShortWindow,
		LongWindow:         cfg.StrategyLongWindow,
		StrategyReturn:     strategyCum[len(strategyCum)-1] - 1,
		BuyHoldReturn:      buyHoldCum[len(buyHoldCum)-1] - 1,
		DaysInMarket:       daysLong,
		TradingDays:        rets.Len(),
		Dates:              rets.Dates,
		StrategyCumulative: strategyCum,
		BuyHoldCumulative:  buyHoldCum,
	}
	st.Outperformance = st.StrategyReturn - st.BuyHoldReturn
	st.StrategyBeats = st.StrategyReturn > st.BuyHoldReturn

	return st, nil
}
