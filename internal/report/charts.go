package report

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stocklens/internal/analytics"
	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

var (
	colorPrice    = drawing.Color{R: 0x2F, G: 0x75, B: 0xB5, A: 255}
	colorPositive = drawing.Color{R: 0x10, G: 0xB9, B: 0x81, A: 255}
	colorNegative = drawing.Color{R: 0xEF, G: 0x44, B: 0x44, A: 255}
	colorAccent   = drawing.Color{R: 0xF5, G: 0x9E, B: 0x0B, A: 255}
)

// ChartRenderer draws one PNG per module into <output>/charts.
type ChartRenderer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewChartRenderer creates a ChartRenderer. A nil logger falls back to
// slog.Default.
func NewChartRenderer(cfg *config.Config, logger *slog.Logger) *ChartRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartRenderer{cfg: cfg, logger: logger}
}

// RenderAll draws every module's chart. Failed modules are skipped; the
// first write or render failure aborts the pass.
func (r *ChartRenderer) RenderAll(s *series.PriceSeries, res *analytics.Results) error {
	if err := r.cfg.EnsureOutputDirs(); err != nil {
		return apperrors.NewRenderError("chart", r.cfg.ChartsDir(), err)
	}
	if s.Len() < 2 {
		r.logger.Warn("not enough rows to chart", "rows", s.Len())
		return nil
	}

	for _, module := range analytics.ModuleOrder {
		if _, failed := res.Failed(module); failed {
			r.logger.Debug("skipping chart for failed module", "module", module)
			continue
		}
		c, ok := r.buildChart(module, s, res)
		if !ok {
			continue
		}
		path := filepath.Join(r.cfg.ChartsDir(), fileStem(module)+".png")
		if err := r.writePNG(path, c); err != nil {
			return err
		}
		r.logger.Debug("wrote chart", "module", module, "path", path)
	}
	return nil
}

func (r *ChartRenderer) buildChart(module string, s *series.PriceSeries, res *analytics.Results) (*chart.Chart, bool) {
	switch module {
	case analytics.ModuleDescriptive:
		return r.priceChart(s), true
	case analytics.ModulePerformance:
		return r.cumulativeChart(res.Performance), true
	case analytics.ModuleTechnical:
		return r.technicalChart(s, res.Technical), true
	case analytics.ModuleRisk:
		return r.drawdownChart(res.Risk), true
	case analytics.ModuleTimeSeries:
		c := r.monthlyChart(res.TimeSeries)
		return c, c != nil
	case analytics.ModuleVolatility:
		c := r.volatilityChart(res.Volatility)
		return c, c != nil
	case analytics.ModulePredictive:
		return r.crossoverChart(s, res.Predictive), true
	case analytics.ModuleStrategy:
		return r.strategyChart(res.Strategy), true
	}
	return nil, false
}

func (r *ChartRenderer) base(title string) *chart.Chart {
	return &chart.Chart{
		Title:  title,
		Width:  r.cfg.Charts.Width,
		Height: r.cfg.Charts.Height,
		DPI:    float64(r.cfg.Charts.DPI),
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
	}
}

func (r *ChartRenderer) priceChart(s *series.PriceSeries) *chart.Chart {
	c := r.base("Closing Price")
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Close",
			XValues: s.Dates(),
			YValues: s.Closes(),
			Style:   chart.Style{StrokeColor: colorPrice, StrokeWidth: 1.5},
		},
	}
	return c
}

func (r *ChartRenderer) cumulativeChart(p *analytics.Performance) *chart.Chart {
	c := r.base("Cumulative Returns")
	c.YAxis.ValueFormatter = chart.PercentValueFormatter
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Cumulative return",
			XValues: p.CumulativeDates,
			YValues: p.CumulativeReturns,
			Style:   chart.Style{StrokeColor: colorPositive, StrokeWidth: 1.5},
		},
	}
	return c
}

func (r *ChartRenderer) technicalChart(s *series.PriceSeries, t *analytics.Technical) *chart.Chart {
	c := r.base("Price and Moving Averages")
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Close",
			XValues: s.Dates(),
			YValues: s.Closes(),
			Style:   chart.Style{StrokeColor: colorPrice, StrokeWidth: 1.5},
		},
	}
	palette := []drawing.Color{colorAccent, colorPositive, colorNegative}
	for i, w := range sortedWindows(t.MovingAverages) {
		dates, values := dropUndefined(s.Dates(), t.MovingAverages[w])
		if len(values) == 0 {
			continue
		}
		c.Series = append(c.Series, chart.TimeSeries{
			Name:    fmt.Sprintf("SMA %d", w),
			XValues: dates,
			YValues: values,
			Style:   chart.Style{StrokeColor: palette[i%len(palette)], StrokeWidth: 1.0},
		})
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c
}

func (r *ChartRenderer) drawdownChart(rk *analytics.Risk) *chart.Chart {
	c := r.base("Drawdown")
	c.YAxis.ValueFormatter = chart.PercentValueFormatter
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Drawdown",
			XValues: rk.DrawdownDates,
			YValues: rk.Drawdowns,
			Style:   chart.Style{StrokeColor: colorNegative, StrokeWidth: 1.5},
		},
	}
	return c
}

// monthlyChart returns nil when fewer than two months exist; a single point
// cannot be scaled to an axis range.
func (r *ChartRenderer) monthlyChart(ts *analytics.TimeSeries) *chart.Chart {
	if len(ts.Monthly) < 2 {
		return nil
	}
	c := r.base("Mean Daily Return by Month")
	c.YAxis.ValueFormatter = chart.PercentValueFormatter

	dates := make([]time.Time, len(ts.Monthly))
	means := make([]float64, len(ts.Monthly))
	for i, m := range ts.Monthly {
		dates[i] = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
		means[i] = m.Mean
	}
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Mean daily return",
			XValues: dates,
			YValues: means,
			Style:   chart.Style{StrokeColor: colorPrice, StrokeWidth: 1.5, DotWidth: 3},
		},
	}
	return c
}

func (r *ChartRenderer) volatilityChart(v *analytics.Volatility) *chart.Chart {
	dates, values := dropUndefined(v.Dates, v.Rolling)
	if len(values) < 2 {
		return nil
	}
	c := r.base(fmt.Sprintf("Rolling %d-Day Volatility", v.Window))
	c.YAxis.ValueFormatter = chart.PercentValueFormatter
	threshold := make([]float64, len(values))
	for i := range threshold {
		threshold[i] = v.HighThreshold
	}
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Rolling volatility",
			XValues: dates,
			YValues: values,
			Style:   chart.Style{StrokeColor: colorPrice, StrokeWidth: 1.5},
		},
		chart.TimeSeries{
			Name:    "High volatility threshold",
			XValues: dates,
			YValues: threshold,
			Style: chart.Style{
				StrokeColor:     colorNegative,
				StrokeWidth:     1.0,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c
}

func (r *ChartRenderer) crossoverChart(s *series.PriceSeries, p *analytics.Predictive) *chart.Chart {
	c := r.base(fmt.Sprintf("SMA %d vs SMA %d Crossovers", p.ShortWindow, p.LongWindow))

	shortDates, shortVals := dropUndefined(p.Dates, p.ShortMA)
	longDates, longVals := dropUndefined(p.Dates, p.LongMA)
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Close",
			XValues: s.Dates(),
			YValues: s.Closes(),
			Style:   chart.Style{StrokeColor: colorPrice, StrokeWidth: 1.0},
		},
	}
	if len(shortVals) > 0 {
		c.Series = append(c.Series, chart.TimeSeries{
			Name:    fmt.Sprintf("SMA %d", p.ShortWindow),
			XValues: shortDates,
			YValues: shortVals,
			Style:   chart.Style{StrokeColor: colorPositive, StrokeWidth: 1.0},
		})
	}
	if len(longVals) > 0 {
		c.Series = append(c.Series, chart.TimeSeries{
			Name:    fmt.Sprintf("SMA %d", p.LongWindow),
			XValues: longDates,
			YValues: longVals,
			Style:   chart.Style{StrokeColor: colorAccent, StrokeWidth: 1.0},
		})
	}
	if len(p.Crossovers) > 0 {
		annotations := make([]chart.Value2, 0, len(p.Crossovers))
		for _, cr := range p.Crossovers {
			label := "Golden"
			if cr.Type == analytics.DeathCross {
				label = "Death"
			}
			annotations = append(annotations, chart.Value2{
				XValue: chart.TimeToFloat64(cr.Date),
				YValue: cr.ShortMA,
				Label:  label,
			})
		}
		c.Series = append(c.Series, chart.AnnotationSeries{Annotations: annotations})
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c
}

func (r *ChartRenderer) strategyChart(st *analytics.Strategy) *chart.Chart {
	c := r.base("Strategy vs Buy and Hold")
	c.YAxis.ValueFormatter = chart.PercentValueFormatter
	c.Series = []chart.Series{
		chart.TimeSeries{
			Name:    "Strategy",
			XValues: st.Dates,
			YValues: st.StrategyCumulative,
			Style:   chart.Style{StrokeColor: colorPositive, StrokeWidth: 1.5},
		},
		chart.TimeSeries{
			Name:    "Buy and Hold",
			XValues: st.Dates,
			YValues: st.BuyHoldCumulative,
			Style:   chart.Style{StrokeColor: colorPrice, StrokeWidth: 1.5},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c
}

func (r *ChartRenderer) writePNG(path string, c *chart.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewRenderError("chart", path, err)
	}
	defer f.Close()
	if err := c.Render(chart.PNG, f); err != nil {
		return apperrors.NewRenderError("chart", path, err)
	}
	return nil
}

// dropUndefined strips NaN leading and interior values together with their
// dates so go-chart never sees a NaN.
func dropUndefined(dates []time.Time, values []float64) ([]time.Time, []float64) {
	outDates := make([]time.Time, 0, len(values))
	outValues := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		outDates = append(outDates, dates[i])
		outValues = append(outValues, v)
	}
	return outDates, outValues
}

func sortedWindows(mas map[int][]float64) []int {
	windows := make([]int, 0, len(mas))
	for w := range mas {
		windows = append(windows, w)
	}
	sort.Ints(windows)
	return windows
}
