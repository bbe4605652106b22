package analytics

import (
	"fmt"
	"math"

	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// StrongCorrelation is the absolute level above which the return-volume
// relationship counts as strong.
const StrongCorrelation = 0.3

// Correlation holds the return-volume correlation structure of the series.
type Correlation struct {
	// Pearson correlation of daily returns with the day-over-day volume
	// change, same sessions.
	ReturnVolumeChange float64

	// Pearson correlation of daily returns with the raw volume level.
	ReturnVolumeLevel float64

	// Lag-1 autocorrelations of daily returns and of volume changes.
	ReturnAutocorr float64
	VolumeAutocorr float64

	Strong bool // |ReturnVolumeChange| above StrongCorrelation
}

// ComputeCorrelation measures how daily returns co-move with volume and how
// much each series remembers its own previous day.
func ComputeCorrelation(s *series.PriceSeries) (*Correlation, error) {
	if s.Len() < 3 {
		return nil, apperrors.NewAnalysisError(ModuleCorrelation, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least 3 rows for lagged correlations, got %d", s.Len()))
	}

	rets := s.Returns().Returns
	volumes := s.Volumes()

	volChanges := make([]float64, len(rets))
	volLevels := make([]float64, len(rets))
	for i := range rets {
		prev, cur := volumes[i], volumes[i+1]
		if prev == 0 {
			volChanges[i] = math.NaN()
		} else {
			volChanges[i] = cur/prev - 1
		}
		volLevels[i] = cur
	}

	c := &Correlation{
		ReturnVolumeChange: series.Correlation(rets, volChanges),
		ReturnVolumeLevel:  series.Correlation(rets, volLevels),
		ReturnAutocorr:     series.Correlation(rets[1:], rets[:len(rets)-1]),
		VolumeAutocorr:     series.Correlation(volChanges[1:], volChanges[:len(volChanges)-1]),
	}
	c.Strong = math.Abs(c.ReturnVolumeChange) > StrongCorrelation
	return c, nil
}
