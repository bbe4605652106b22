package analytics

import (
	"math"

	"stocklens/internal/config"
	"stocklens/internal/series"
)

// Technical holds moving averages, RSI and the derived trading signal.
type Technical struct {
	// MovingAverages maps lookback window to the full SMA series, NaN
	// before the window fills.
	MovingAverages map[int][]float64
	// CurrentMA maps window to the latest SMA value, NaN if never filled.
	CurrentMA map[int]float64

	RSIWindow  int
	RSI        []float64 // aligned to price indices, NaN for the first RSIWindow values
	CurrentRSI float64

	CurrentClose float64
	Signal       Signal
}

// ComputeTechnical computes SMAs for every configured lookback window, the
// RSI oscillator and the close-vs-MA signal.
func ComputeTechnical(s *series.PriceSeries, cfg config.AnalyticsConfig) *Technical {
	closes := s.Closes()

	mas := make(map[int][]float64, len(cfg.LookbackPeriods))
	current := make(map[int]float64, len(cfg.LookbackPeriods))
	for _, window := range cfg.LookbackPeriods {
		ma := series.SMA(closes, window)
		mas[window] = ma
		current[window] = ma[len(ma)-1]
	}

	rsi := computeRSI(closes, cfg.RSIWindow)

	t := &Technical{
		MovingAverages: mas,
		CurrentMA:      current,
		RSIWindow:      cfg.RSIWindow,
		RSI:            rsi,
		CurrentRSI:     rsi[len(rsi)-1],
		CurrentClose:   closes[len(closes)-1],
	}
	t.Signal = classifySignal(t.CurrentClose, current)
	return t
}

// computeRSI is the rolling-mean RSI: average gain and average loss over the
// trailing window of one-day changes. RSI is 100 when the window has zero
// losses and 0 when it has zero gains. The first defined value sits at price
// index window, so a 15-row series with window 14 yields exactly one value.
func computeRSI(closes []float64, window int) []float64 {
	rsi := make([]float64, len(closes))
	for i := range rsi {
		rsi[i] = math.NaN()
	}
	if window < 1 || len(closes) <= window {
		return rsi
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum -= change
		}

		if i > window {
			old := closes[i-window] - closes[i-window-1]
			if old > 0 {
				gainSum -= old
			} else {
				lossSum += old
			}
		}

		if i >= window {
			avgGain := gainSum / float64(window)
			avgLoss := lossSum / float64(window)
			switch {
			case avgLoss == 0:
				rsi[i] = 100
			default:
				rs := avgGain / avgLoss
				rsi[i] = 100 - 100/(1+rs)
			}
		}
	}
	return rsi
}

// classifySignal is bullish only when the close is strictly above every
// filled moving average and bearish only when strictly below every one.
// Equality counts as neither, contributing to neutral.
func classifySignal(close float64, currentMA map[int]float64) Signal {
	aboveAll, belowAll := true, true
	defined := 0
	for _, ma := range currentMA {
		if math.IsNaN(ma) {
			continue
		}
		defined++
		if close <= ma {
			aboveAll = false
		}
		if close >= ma {
			belowAll = false
		}
	}
	if defined == 0 {
		return SignalNeutral
	}
	if aboveAll {
		return SignalBullish
	}
	if belowAll {
		return SignalBearish
	}
	return SignalNeutral
}
