// Package series defines the in-memory price table and the shared numeric
// helpers every analytics module computes from. All modules derive returns
// through the single Returns helper so first-value handling and rounding are
// identical everywhere.
package series

import (
	"time"
)

// Bar is one daily OHLCV record.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PriceSeries is an immutable, chronologically sorted sequence of daily bars
// with unique dates. Construct it through the loader; analytics code treats
// it as read-only.
type PriceSeries struct {
	Bars []Bar
}

// Len returns the number of trading days.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// First returns the earliest bar. Panics on an empty series; the loader
// guarantees at least one row.
func (s *PriceSeries) First() Bar { return s.Bars[0] }

// Last returns the most recent bar.
func (s *PriceSeries) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Dates returns the date column.
func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// AdjCloses returns the adjusted close column.
func (s *PriceSeries) AdjCloses() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.AdjClose
	}
	return out
}

// Volumes returns the volume column.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// ReturnSeries holds period-over-period fractional changes. Returns[i] is the
// change from Dates[i] relative to the prior trading day, so it is one entry
// shorter than the price series it came from.
type ReturnSeries struct {
	Dates   []time.Time
	Returns []float64
}

// Len returns the number of return observations.
func (r *ReturnSeries) Len() int { return len(r.Returns) }

// Returns computes daily fractional returns from the close column.
// The first trading day has no return and is omitted.
func (s *PriceSeries) Returns() *ReturnSeries {
	if len(s.Bars) < 2 {
		return &ReturnSeries{}
	}
	dates := make([]time.Time, 0, len(s.Bars)-1)
	rets := make([]float64, 0, len(s.Bars)-1)
	for i := 1; i < len(s.Bars); i++ {
		dates = append(dates, s.Bars[i].Date)
		rets = append(rets, s.Bars[i].Close/s.Bars[i-1].Close-1)
	}
	return &ReturnSeries{Dates: dates, Returns: rets}
}
