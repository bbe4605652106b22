package analytics

import (
	"math"
	"testing"
)

func TestDescriptiveOverview(t *testing.T) {
	s := seriesFromCloses([]float64{100, 102, 101, 105, 103})
	d := ComputeDescriptive(s)

	if d.Rows != 5 {
		t.Errorf("rows = %d, want 5", d.Rows)
	}
	if !d.StartDate.Equal(day(0)) || !d.EndDate.Equal(day(4)) {
		t.Errorf("date range = %v..%v", d.StartDate, d.EndDate)
	}
	if d.CloseMin != 100 || d.CloseMax != 105 {
		t.Errorf("close range = %v..%v, want 100..105", d.CloseMin, d.CloseMax)
	}
	if math.Abs(d.CloseMean-102.2) > 1e-9 {
		t.Errorf("close mean = %v, want 102.2", d.CloseMean)
	}
	if d.CloseStd <= 0 {
		t.Errorf("close std = %v, want positive", d.CloseStd)
	}
	// Lows are 0.99x close, highs 1.01x close in the fixture.
	if math.Abs(d.LowMin-99) > 1e-9 {
		t.Errorf("low min = %v, want 99", d.LowMin)
	}
	if math.Abs(d.HighMax-105*1.01) > 1e-9 {
		t.Errorf("high max = %v, want %v", d.HighMax, 105*1.01)
	}
}
