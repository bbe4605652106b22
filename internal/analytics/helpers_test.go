package analytics

import (
	"time"

	"stocklens/internal/config"
	"stocklens/internal/series"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func seriesFromCloses(closes []float64) *series.PriceSeries {
	bars := make([]series.Bar, len(closes))
	for i, c := range closes {
		bars[i] = series.Bar{
			Date: day(i), Open: c, High: c * 1.01, Low: c * 0.99,
			Close: c, AdjClose: c, Volume: 1000 + float64(i),
		}
	}
	return &series.PriceSeries{Bars: bars}
}

func seriesFromBars(closes, volumes []float64) *series.PriceSeries {
	bars := make([]series.Bar, len(closes))
	for i, c := range closes {
		bars[i] = series.Bar{
			Date: day(i), Open: c, High: c * 1.01, Low: c * 0.99,
			Close: c, AdjClose: c, Volume: volumes[i],
		}
	}
	return &series.PriceSeries{Bars: bars}
}

func testConfig() config.AnalyticsConfig {
	return config.Default().Analytics
}
