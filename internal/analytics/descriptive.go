package analytics

import (
	"time"

	"stocklens/internal/series"
)

// Descriptive holds the basic statistics and data overview.
type Descriptive struct {
	Rows      int
	StartDate time.Time
	EndDate   time.Time

	CloseMin  float64
	CloseMax  float64
	CloseMean float64
	CloseStd  float64

	VolumeMin  float64
	VolumeMax  float64
	VolumeMean float64

	// Price range as reported: lowest low to highest high.
	LowMin  float64
	HighMax float64
}

// ComputeDescriptive summarizes the loaded series. The loader guarantees at
// least one row, so there are no error conditions here.
func ComputeDescriptive(s *series.PriceSeries) *Descriptive {
	closes := s.Closes()
	volumes := s.Volumes()

	lows := make([]float64, s.Len())
	highs := make([]float64, s.Len())
	for i, b := range s.Bars {
		lows[i] = b.Low
		highs[i] = b.High
	}

	return &Descriptive{
		Rows:       s.Len(),
		StartDate:  s.First().Date,
		EndDate:    s.Last().Date,
		CloseMin:   series.Min(closes),
		CloseMax:   series.Max(closes),
		CloseMean:  series.Mean(closes),
		CloseStd:   series.Std(closes),
		VolumeMin:  series.Min(volumes),
		VolumeMax:  series.Max(volumes),
		VolumeMean: series.Mean(volumes),
		LowMin:     series.Min(lows),
		HighMax:    series.Max(highs),
	}
}
