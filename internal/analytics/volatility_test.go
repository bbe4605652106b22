package analytics

import (
	"math"
	"testing"

	apperrors "stocklens/internal/errors"
)

func TestVolatilityWindowFill(t *testing.T) {
	cfg := testConfig()
	cfg.VolatilityWindow = 5

	closes := []float64{100, 101, 99, 102, 100, 103, 101, 104, 102, 105}
	v, err := ComputeVolatility(seriesFromCloses(closes), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 9 returns, window 5: first 4 undefined.
	for i := 0; i < 4; i++ {
		if !math.IsNaN(v.Rolling[i]) {
			t.Errorf("rolling[%d] = %v, want NaN before window fills", i, v.Rolling[i])
		}
	}
	for i := 4; i < len(v.Rolling); i++ {
		if math.IsNaN(v.Rolling[i]) {
			t.Errorf("rolling[%d] undefined after window filled", i)
		}
		if v.Rolling[i] < 0 {
			t.Errorf("rolling[%d] = %v, volatility cannot be negative", i, v.Rolling[i])
		}
	}

	if math.IsNaN(v.Current) || v.Current < 0 {
		t.Errorf("current volatility = %v", v.Current)
	}
}

func TestVolatilityConstantSeriesIsZero(t *testing.T) {
	cfg := testConfig()
	cfg.VolatilityWindow = 5

	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0
	}

	v, err := ComputeVolatility(seriesFromCloses(closes), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Current != 0 {
		t.Errorf("current volatility = %v, want exactly 0", v.Current)
	}
	if len(v.ClusterDates) != 0 {
		t.Errorf("constant series flagged %d cluster dates", len(v.ClusterDates))
	}
}

func TestVolatilityClusterRule(t *testing.T) {
	cfg := testConfig()
	cfg.VolatilityWindow = 3

	// Calm stretch then a violent stretch: the violent days should exceed
	// 1.5x the series mean.
	closes := []float64{
		100, 100.1, 100.2, 100.1, 100.2, 100.3, 100.2, 100.3,
		100, 115, 95, 120, 90, 125,
	}
	v, err := ComputeVolatility(seriesFromCloses(closes), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.ClusterDates) == 0 {
		t.Error("expected cluster dates in the violent stretch")
	}
	for _, d := range v.ClusterDates {
		if d.Before(day(8)) {
			t.Errorf("calm day %v flagged as cluster", d)
		}
	}
}

func TestVolatilityInsufficientData(t *testing.T) {
	cfg := testConfig()
	cfg.VolatilityWindow = 20

	_, err := ComputeVolatility(seriesFromCloses([]float64{100, 101, 102}), cfg)
	ae, ok := apperrors.IsAnalysisError(err)
	if !ok || ae.Kind != apperrors.KindInsufficientData {
		t.Errorf("got %v, want InsufficientData", err)
	}
}
