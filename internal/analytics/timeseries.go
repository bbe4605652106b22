package analytics

import (
	"fmt"
	"sort"
	"time"

	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// MonthStats aggregates daily returns for one (year, month) group.
type MonthStats struct {
	Year  int
	Month time.Month
	Mean  float64
	Std   float64
	Count int
}

// YearStats aggregates daily returns for one calendar year.
type YearStats struct {
	Year  int
	Mean  float64
	Std   float64
	Count int
}

// CalendarMonthStats aggregates daily returns by calendar month across all
// years, used to characterize seasonality.
type CalendarMonthStats struct {
	Month time.Month
	Mean  float64
	Std   float64
	Count int
}

// TimeSeries holds seasonality groupings of the return series. Groups with
// zero observations are absent, never zero-filled.
type TimeSeries struct {
	Monthly  []MonthStats         // sorted by (year, month)
	Yearly   []YearStats          // sorted by year
	Calendar []CalendarMonthStats // sorted by month, only observed months

	BestMonth  time.Month
	BestMean   float64
	WorstMonth time.Month
	WorstMean  float64
}

// ComputeTimeSeries groups daily returns by calendar period.
func ComputeTimeSeries(s *series.PriceSeries, _ config.AnalyticsConfig) (*TimeSeries, error) {
	if s.Len() < 2 {
		return nil, apperrors.NewAnalysisError(ModuleTimeSeries, apperrors.KindInsufficientData,
			fmt.Sprintf("need at least 2 rows for return grouping, got %d", s.Len()))
	}

	rets := s.Returns()

	type key struct {
		year  int
		month time.Month
	}
	monthly := make(map[key][]float64)
	yearly := make(map[int][]float64)
	calendar := make(map[time.Month][]float64)

	for i, d := range rets.Dates {
		r := rets.Returns[i]
		monthly[key{d.Year(), d.Month()}] = append(monthly[key{d.Year(), d.Month()}], r)
		yearly[d.Year()] = append(yearly[d.Year()], r)
		calendar[d.Month()] = append(calendar[d.Month()], r)
	}

	ts := &TimeSeries{}

	for k, vals := range monthly {
		ts.Monthly = append(ts.Monthly, MonthStats{
			Year: k.year, Month: k.month,
			Mean: series.Mean(vals), Std: series.Std(vals), Count: len(vals),
		})
	}
	sort.Slice(ts.Monthly, func(i, j int) bool {
		if ts.Monthly[i].Year != ts.Monthly[j].Year {
			return ts.Monthly[i].Year < ts.Monthly[j].Year
		}
		return ts.Monthly[i].Month < ts.Monthly[j].Month
	})

	for y, vals := range yearly {
		ts.Yearly = append(ts.Yearly, YearStats{
			Year: y, Mean: series.Mean(vals), Std: series.Std(vals), Count: len(vals),
		})
	}
	sort.Slice(ts.Yearly, func(i, j int) bool { return ts.Yearly[i].Year < ts.Yearly[j].Year })

	for m, vals := range calendar {
		ts.Calendar = append(ts.Calendar, CalendarMonthStats{
			Month: m, Mean: series.Mean(vals), Std: series.Std(vals), Count: len(vals),
		})
	}
	sort.Slice(ts.Calendar, func(i, j int) bool { return ts.Calendar[i].Month < ts.Calendar[j].Month })

	for i, c := range ts.Calendar {
		if i == 0 || c.Mean > ts.BestMean {
			ts.BestMonth, ts.BestMean = c.Month, c.Mean
		}
		if i == 0 || c.Mean < ts.WorstMean {
			ts.WorstMonth, ts.WorstMean = c.Month, c.Mean
		}
	}

	return ts, nil
}
