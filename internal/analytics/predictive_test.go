package analytics

import (
	"reflect"
	"testing"
)

func TestGoldenCrossDetection(t *testing.T) {
	cfg := testConfig()
	cfg.ShortMAWindow = 2
	cfg.LongMAWindow = 4

	// Falling prices keep the short MA below the long MA, then a sharp
	// rally pulls it above.
	closes := []float64{110, 108, 106, 104, 102, 100, 112, 124}
	p := ComputePredictive(seriesFromCloses(closes), cfg)

	if len(p.Crossovers) == 0 {
		t.Fatal("expected at least one crossover")
	}
	last := p.Crossovers[len(p.Crossovers)-1]
	if last.Type != GoldenCross {
		t.Errorf("last crossover = %v, want GOLDEN_CROSS", last.Type)
	}
	if p.CurrentSignal != GoldenCross {
		t.Errorf("current signal = %v, want GOLDEN_CROSS", p.CurrentSignal)
	}
	if p.Trend != SignalBullish {
		t.Errorf("trend = %v, want BULLISH", p.Trend)
	}
}

func TestDeathCrossDetection(t *testing.T) {
	cfg := testConfig()
	cfg.ShortMAWindow = 2
	cfg.LongMAWindow = 4

	closes := []float64{100, 102, 104, 106, 108, 110, 98, 86}
	p := ComputePredictive(seriesFromCloses(closes), cfg)

	if p.CurrentSignal != DeathCross {
		t.Errorf("current signal = %v, want DEATH_CROSS", p.CurrentSignal)
	}
}

func TestNoCrossoverMeansNoSignal(t *testing.T) {
	cfg := testConfig()
	cfg.ShortMAWindow = 2
	cfg.LongMAWindow = 4

	// Steadily rising: short MA stays above long MA once defined, no
	// transition ever occurs.
	closes := []float64{100, 102, 104, 106, 108, 110, 112}
	p := ComputePredictive(seriesFromCloses(closes), cfg)

	if len(p.Crossovers) != 0 {
		t.Errorf("got %d crossovers, want none for a monotone trend", len(p.Crossovers))
	}
	if p.CurrentSignal != "" {
		t.Errorf("current signal = %q, want empty", p.CurrentSignal)
	}
	if p.Trend != SignalBullish {
		t.Errorf("trend = %v, want BULLISH", p.Trend)
	}
}

func TestCrossoverDeterminism(t *testing.T) {
	cfg := testConfig()
	cfg.ShortMAWindow = 2
	cfg.LongMAWindow = 4

	closes := []float64{110, 108, 106, 104, 102, 100, 112, 124, 110, 96, 90, 108, 120}
	first := ComputePredictive(seriesFromCloses(closes), cfg)
	second := ComputePredictive(seriesFromCloses(closes), cfg)

	if !reflect.DeepEqual(first.Crossovers, second.Crossovers) {
		t.Error("identical input produced different crossover events")
	}
}

func TestCrossoverNeedsPriorState(t *testing.T) {
	cfg := testConfig()
	cfg.ShortMAWindow = 1
	cfg.LongMAWindow = 2

	// Both MAs are first defined at index 1; index 1 itself has no prior
	// defined state, so the earliest possible event is index 2.
	closes := []float64{100, 90, 120}
	p := ComputePredictive(seriesFromCloses(closes), cfg)

	for _, c := range p.Crossovers {
		if c.Date.Before(day(2)) {
			t.Errorf("crossover at %v precedes first comparable index", c.Date)
		}
	}
}
