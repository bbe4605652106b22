package analytics

import (
	"math"
	"time"

	"stocklens/internal/config"
	"stocklens/internal/series"
)

// Predictive holds the moving-average crossover scan.
type Predictive struct {
	ShortWindow int
	LongWindow  int

	Dates   []time.Time
	ShortMA []float64
	LongMA  []float64

	// Crossovers in chronological order. CurrentSignal is the direction of
	// the most recent event, or empty when no crossover occurred.
	Crossovers    []Crossover
	CurrentSignal CrossoverType

	// Trend is the standing relation of short to long MA at the last index.
	Trend Signal
}

// ComputePredictive scans for golden and death crosses between the short and
// long moving averages. Detection compares consecutive indices, so the first
// index with both averages defined cannot generate a signal.
func ComputePredictive(s *series.PriceSeries, cfg config.AnalyticsConfig) *Predictive {
	closes := s.Closes()

	p := &Predictive{
		ShortWindow: cfg.ShortMAWindow,
		LongWindow:  cfg.LongMAWindow,
		Dates:       s.Dates(),
		ShortMA:     series.SMA(closes, cfg.ShortMAWindow),
		LongMA:      series.SMA(closes, cfg.LongMAWindow),
		Trend:       SignalNeutral,
	}

	for t := 1; t < len(closes); t++ {
		if math.IsNaN(p.ShortMA[t]) || math.IsNaN(p.LongMA[t]) ||
			math.IsNaN(p.ShortMA[t-1]) || math.IsNaN(p.LongMA[t-1]) {
			continue
		}
		// Equality is "not above": a golden cross needs a strict move from
		// at-or-below to above, a death cross the mirror image.
		wasAbove := p.ShortMA[t-1] > p.LongMA[t-1]
		isAbove := p.ShortMA[t] > p.LongMA[t]
		wasBelow := p.ShortMA[t-1] < p.LongMA[t-1]
		isBelow := p.ShortMA[t] < p.LongMA[t]

		if isAbove && !wasAbove {
			p.Crossovers = append(p.Crossovers, Crossover{
				Date: p.Dates[t], Type: GoldenCross,
				ShortMA: p.ShortMA[t], LongMA: p.LongMA[t],
			})
		} else if isBelow && !wasBelow {
			p.Crossovers = append(p.Crossovers, Crossover{
				Date: p.Dates[t], Type: DeathCross,
				ShortMA: p.ShortMA[t], LongMA: p.LongMA[t],
			})
		}
	}

	if len(p.Crossovers) > 0 {
		p.CurrentSignal = p.Crossovers[len(p.Crossovers)-1].Type
	}

	last := len(closes) - 1
	if !math.IsNaN(p.ShortMA[last]) && !math.IsNaN(p.LongMA[last]) {
		switch {
		case p.ShortMA[last] > p.LongMA[last]:
			p.Trend = SignalBullish
		case p.ShortMA[last] < p.LongMA[last]:
			p.Trend = SignalBearish
		}
	}

	return p
}
