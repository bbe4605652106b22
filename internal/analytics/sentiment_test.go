package analytics

import (
	"math"
	"testing"
)

func TestSentimentBullishOnHeavyUpVolume(t *testing.T) {
	// Up days at index 1 and 3, down days at 2 and 4.
	closes := []float64{100, 110, 100, 110, 100}
	volumes := []float64{1000, 2000, 1000, 3000, 1000}
	sent, err := ComputeSentiment(seriesFromBars(closes, volumes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Up volume 2000+3000 against down volume 1000+1000.
	if math.Abs(sent.UpDownVolumeRatio-2.5) > 1e-9 {
		t.Errorf("up/down volume ratio = %v, want 2.5", sent.UpDownVolumeRatio)
	}
	if sent.Signal != SignalBullish {
		t.Errorf("signal = %s, want %s", sent.Signal, SignalBullish)
	}

	if math.Abs(sent.AverageVolume-1600) > 1e-9 {
		t.Errorf("average volume = %v, want 1600", sent.AverageVolume)
	}
	if math.Abs(sent.VolumeRatio-1000.0/1600) > 1e-9 {
		t.Errorf("volume ratio = %v, want %v", sent.VolumeRatio, 1000.0/1600)
	}

	// 80th percentile of volume is 2200, so only day 3 (3000) counts as
	// high volume; its return is +10%.
	if math.Abs(sent.HighVolumeReturn-0.10) > 1e-9 {
		t.Errorf("high-volume return = %v, want 0.10", sent.HighVolumeReturn)
	}
}

func TestSentimentBearishOnHeavyDownVolume(t *testing.T) {
	closes := []float64{100, 110, 100, 110, 100}
	volumes := []float64{1000, 1000, 3000, 1000, 3000}
	sent, err := ComputeSentiment(seriesFromBars(closes, volumes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sent.UpDownVolumeRatio-2.0/6) > 1e-9 {
		t.Errorf("up/down volume ratio = %v, want %v", sent.UpDownVolumeRatio, 2.0/6)
	}
	if sent.Signal != SignalBearish {
		t.Errorf("signal = %s, want %s", sent.Signal, SignalBearish)
	}
}

func TestSentimentNoDownDays(t *testing.T) {
	sent, err := ComputeSentiment(seriesFromCloses([]float64{100, 101, 102, 103}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(sent.UpDownVolumeRatio, 1) {
		t.Errorf("up/down volume ratio = %v, want +Inf without down days", sent.UpDownVolumeRatio)
	}
	if sent.Signal != SignalBullish {
		t.Errorf("signal = %s, want %s", sent.Signal, SignalBullish)
	}
}

func TestSentimentInsufficientData(t *testing.T) {
	_, err := ComputeSentiment(seriesFromCloses([]float64{100}))
	if err == nil {
		t.Fatal("expected error for single-row series")
	}
}
