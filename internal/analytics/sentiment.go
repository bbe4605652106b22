package analytics

import (
	"fmt"
	"math"

	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// HighVolumePercentile marks the volume quantile above which a session counts
// as a high-volume day.
const HighVolumePercentile = 80

// Sentiment reads market mood from the volume-price relationship.
type Sentiment struct {
	AverageVolume float64
	CurrentVolume float64
	VolumeRatio   float64 // current over average

	// Mean daily return on sessions whose volume sits above the
	// HighVolumePercentile quantile of all sessions.
	HighVolumeReturn float64

	// Total volume on up days over total volume on down days. +Inf when no
	// down days exist.
	UpDownVolumeRatio float64

	Signal Signal
}

// ComputeSentiment relates volume to price direction: how heavy today's
// volume is against the average, how the stock moves on heavy days, and
// whether volume concentrates on up or down days.
func ComputeSentiment(s *series.PriceSeries) (*Sentiment, error) {
	if s.Len() < 2 {
		return nil, apperrors.NewAnalysisError(ModuleSentiment, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least 2 rows for daily returns, got %d", s.Len()))
	}

	volumes := s.Volumes()
	rets := s.Returns()

	sent := &Sentiment{
		AverageVolume: series.Mean(volumes),
		CurrentVolume: volumes[len(volumes)-1],
	}
	sent.VolumeRatio = sent.CurrentVolume / sent.AverageVolume

	highThreshold := series.Percentile(volumes, HighVolumePercentile)
	var highVolReturns []float64
	var upVolume, downVolume float64
	for i, r := range rets.Returns {
		// rets.Returns[i] is the return into day i+1 of the series.
		vol := volumes[i+1]
		if vol > highThreshold {
			highVolReturns = append(highVolReturns, r)
		}
		switch {
		case r > 0:
			upVolume += vol
		case r < 0:
			downVolume += vol
		}
	}
	sent.HighVolumeReturn = series.Mean(highVolReturns)

	if downVolume > 0 {
		sent.UpDownVolumeRatio = upVolume / downVolume
	} else {
		sent.UpDownVolumeRatio = math.Inf(1)
	}

	switch {
	case sent.UpDownVolumeRatio > 1.2:
		sent.Signal = SignalBullish
	case sent.UpDownVolumeRatio < 0.8:
		sent.Signal = SignalBearish
	default:
		sent.Signal = SignalNeutral
	}

	return sent, nil
}
