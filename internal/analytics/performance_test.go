package analytics

import (
	"math"
	"testing"

	apperrors "stocklens/internal/errors"
)

func TestPerformanceScenario(t *testing.T) {
	// [100, 102, 101, 105, 103]: total return is 103/100 - 1 = 0.03.
	s := seriesFromCloses([]float64{100, 102, 101, 105, 103})

	perf, err := ComputePerformance(s, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(perf.TotalReturn-0.03) > 1e-9 {
		t.Errorf("total return = %v, want 0.03", perf.TotalReturn)
	}

	wantAnnualized := math.Pow(1.03, 252.0/5.0) - 1
	if math.Abs(perf.AnnualizedReturn-wantAnnualized) > 1e-9 {
		t.Errorf("annualized return = %v, want %v", perf.AnnualizedReturn, wantAnnualized)
	}

	if len(perf.CumulativeReturns) != 4 {
		t.Fatalf("cumulative series length = %d, want 4", len(perf.CumulativeReturns))
	}
	if math.Abs(perf.CumulativeReturns[3]-1.03) > 1e-9 {
		t.Errorf("final cumulative = %v, want 1.03", perf.CumulativeReturns[3])
	}
}

func TestPerformanceTotalReturnExactness(t *testing.T) {
	closes := []float64{37.14, 40.0, 36.5, 42.33, 42.33, 55.9}
	s := seriesFromCloses(closes)

	perf, err := ComputePerformance(s, testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := closes[len(closes)-1]/closes[0] - 1
	if math.Abs(perf.TotalReturn-want) > 1e-9 {
		t.Errorf("total return = %v, want last/first-1 = %v", perf.TotalReturn, want)
	}
}

func TestPerformanceInsufficientData(t *testing.T) {
	_, err := ComputePerformance(seriesFromCloses([]float64{100}), testConfig())
	if err == nil {
		t.Fatal("expected InsufficientData error for single-row series")
	}
	ae, ok := apperrors.IsAnalysisError(err)
	if !ok || ae.Kind != apperrors.KindInsufficientData {
		t.Errorf("got %v, want AnalysisError InsufficientData", err)
	}
}

func TestPerformanceConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0
	}

	perf, err := ComputePerformance(seriesFromCloses(closes), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perf.TotalReturn != 0 {
		t.Errorf("total return = %v, want 0", perf.TotalReturn)
	}
	if perf.AnnualizedVolatility != 0 {
		t.Errorf("annualized volatility = %v, want exactly 0", perf.AnnualizedVolatility)
	}
}
