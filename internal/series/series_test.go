package series

import (
	"math"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// FromCloses builds a series where every price column equals the close,
// which is all most numeric tests need.
func fromCloses(closes []float64) *PriceSeries {
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{
			Date: day(i), Open: c, High: c, Low: c,
			Close: c, AdjClose: c, Volume: 1000,
		}
	}
	return &PriceSeries{Bars: bars}
}

func TestReturnsScenario(t *testing.T) {
	// Reference scenario: 5 closes -> 4 returns.
	s := fromCloses([]float64{100, 102, 101, 105, 103})
	r := s.Returns()

	want := []float64{0.02, -0.009803921568627416, 0.039603960396039604, -0.019047619047619046}
	if r.Len() != len(want) {
		t.Fatalf("got %d returns, want %d", r.Len(), len(want))
	}
	for i, w := range want {
		if math.Abs(r.Returns[i]-w) > 1e-9 {
			t.Errorf("return[%d] = %v, want %v", i, r.Returns[i], w)
		}
	}
	if !r.Dates[0].Equal(day(1)) {
		t.Errorf("first return dated %v, want %v", r.Dates[0], day(1))
	}
}

func TestReturnsTooShort(t *testing.T) {
	if got := fromCloses([]float64{100}).Returns().Len(); got != 0 {
		t.Errorf("single-row series produced %d returns", got)
	}
}

func TestSMALeadingNaN(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	sma := SMA(vals, 3)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(sma[i]) {
			t.Errorf("sma[%d] = %v, want NaN before window fills", i, sma[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(sma[i+2]-w) > 1e-12 {
			t.Errorf("sma[%d] = %v, want %v", i+2, sma[i+2], w)
		}
	}
}

func TestSMAWindowLargerThanData(t *testing.T) {
	for _, v := range SMA([]float64{1, 2}, 5) {
		if !math.IsNaN(v) {
			t.Fatal("expected all NaN when window exceeds data length")
		}
	}
}

func TestStdSample(t *testing.T) {
	// Sample std of {2,4,4,4,5,5,7,9} with n-1 denominator.
	got := Std([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := 2.138089935299395
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Std = %v, want %v", got, want)
	}
}

func TestPercentileLinearInterpolation(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{100, 4},
		{50, 2.5},
		{25, 1.75},
		{5, 1.15},
	}
	for _, tt := range tests {
		if got := Percentile(vals, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCumulativeReturns(t *testing.T) {
	got := CumulativeReturns([]float64{0.1, -0.5, 1.0})
	want := []float64{1.1, 0.55, 1.1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("cum[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRollingStdConstantSeries(t *testing.T) {
	out := RollingStd([]float64{5, 5, 5, 5, 5}, 3)
	for i := 2; i < len(out); i++ {
		if out[i] != 0 {
			t.Errorf("rolling std of constant series at %d = %v, want 0", i, out[i])
		}
	}
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("expected NaN before window fills")
	}
}

func TestAutocorrelationAlternating(t *testing.T) {
	// Perfectly alternating series has lag-1 autocorrelation near -1.
	got := Autocorrelation([]float64{1, -1, 1, -1, 1, -1, 1, -1}, 1)
	if got > -0.8 {
		t.Errorf("lag-1 autocorrelation = %v, want strongly negative", got)
	}
}

func TestAutocorrelationZeroVariance(t *testing.T) {
	if !math.IsNaN(Autocorrelation([]float64{3, 3, 3, 3}, 1)) {
		t.Error("expected NaN for zero-variance series")
	}
}
