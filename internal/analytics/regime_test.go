package analytics

import (
	"testing"
)

func TestRegimeBullInUptrend(t *testing.T) {
	// A steadily rising series sits above its trailing mean on every day
	// where the SMA is defined.
	closes := make([]float64, 210)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.1
	}
	reg, err := ComputeRegime(seriesFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reg.Bull {
		t.Error("rising series should read as a bull regime")
	}
	if reg.BullPct != 1 || reg.BearPct != 0 {
		t.Errorf("bull/bear pct = %v/%v, want 1/0", reg.BullPct, reg.BearPct)
	}
	if reg.Window != RegimeWindow {
		t.Errorf("window = %d, want %d", reg.Window, RegimeWindow)
	}
}

func TestRegimeBearInDowntrend(t *testing.T) {
	closes := make([]float64, 210)
	for i := range closes {
		closes[i] = 300 - float64(i)*0.5
	}
	reg, err := ComputeRegime(seriesFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Bull {
		t.Error("falling series should read as a bear regime")
	}
	if reg.BullPct != 0 || reg.BearPct != 1 {
		t.Errorf("bull/bear pct = %v/%v, want 0/1", reg.BullPct, reg.BearPct)
	}
}

func TestRegimeCloseOnLineCountsBear(t *testing.T) {
	// Constant closes put the price exactly on the SMA every day.
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100
	}
	reg, err := ComputeRegime(seriesFromCloses(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Bull {
		t.Error("close equal to the SMA must not count as bull")
	}
	if reg.BearPct != 1 {
		t.Errorf("bear pct = %v, want 1", reg.BearPct)
	}
}

func TestRegimeInsufficientData(t *testing.T) {
	closes := make([]float64, RegimeWindow-1)
	for i := range closes {
		closes[i] = 100
	}
	_, err := ComputeRegime(seriesFromCloses(closes))
	if err == nil {
		t.Fatalf("expected error for %d rows", len(closes))
	}
}
