package analytics

import (
	"fmt"

	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// RegimeWindow is the moving-average span that separates bull from bear
// territory. The 200-day SMA is the conventional long-term regime line.
const RegimeWindow = 200

// Regime classifies the market as bull or bear relative to the long SMA.
type Regime struct {
	Window int

	CurrentClose float64
	CurrentSMA   float64
	Bull         bool // latest close above the SMA

	// Share of sessions (over the portion where the SMA is defined) spent on
	// each side of the line. A close sitting exactly on the SMA counts as a
	// bear day.
	BullPct float64
	BearPct float64
}

// ComputeRegime compares price to its long moving average, both at the latest
// session and historically.
func ComputeRegime(s *series.PriceSeries) (*Regime, error) {
	closes := s.Closes()
	if len(closes) < RegimeWindow {
		return nil, apperrors.NewAnalysisError(ModuleRegime, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least %d rows for the %d-day SMA, got %d",
				RegimeWindow, RegimeWindow, len(closes)))
	}

	sma := series.SMA(closes, RegimeWindow)

	var bullDays, total int
	for i := RegimeWindow - 1; i < len(closes); i++ {
		total++
		if closes[i] > sma[i] {
			bullDays++
		}
	}

	reg := &Regime{
		Window:       RegimeWindow,
		CurrentClose: closes[len(closes)-1],
		CurrentSMA:   sma[len(sma)-1],
		BullPct:      float64(bullDays) / float64(total),
		BearPct:      float64(total-bullDays) / float64(total),
	}
	reg.Bull = reg.CurrentClose > reg.CurrentSMA
	return reg, nil
}
