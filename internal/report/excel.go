package report

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"stocklens/internal/analytics"
	"stocklens/internal/config"
	apperrors "stocklens/internal/errors"
)

// Workbook fill palette.
const (
	fillHeader   = "2F75B5"
	fillTitle    = "DDEBF7"
	fillPositive = "C6E0B4"
	fillNegative = "F8CBAD"
)

// cell value kinds, controlling number format and conditional fill
type cellKind int

const (
	kindText cellKind = iota
	kindMoney
	kindPercent
	kindSignedPercent
	kindCount
	kindRatio
)

// metricRow is one labelled value on a module sheet.
type metricRow struct {
	Label string
	Value interface{}
	Kind  cellKind
}

// ExcelWriter writes one styled workbook per module plus a consolidated
// summary workbook.
type ExcelWriter struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewExcelWriter creates an ExcelWriter. A nil logger falls back to
// slog.Default.
func NewExcelWriter(cfg *config.Config, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{cfg: cfg, logger: logger}
}

// WriteAll writes the per-module workbooks and 00_analytics_summary.xlsx.
func (w *ExcelWriter) WriteAll(res *analytics.Results) error {
	if err := w.cfg.EnsureOutputDirs(); err != nil {
		return apperrors.NewRenderError("excel", w.cfg.Data.OutputDir, err)
	}

	for _, module := range analytics.ModuleOrder {
		path := filepath.Join(w.cfg.Data.OutputDir, fileStem(module)+".xlsx")
		f := excelize.NewFile()
		if err := w.writeModuleSheet(f, "Sheet1", module, res); err != nil {
			f.Close()
			return apperrors.NewRenderError("excel", path, err)
		}
		if err := f.SetSheetName("Sheet1", analytics.ModuleTitles[module]); err != nil {
			f.Close()
			return apperrors.NewRenderError("excel", path, err)
		}
		if err := f.SaveAs(path); err != nil {
			f.Close()
			return apperrors.NewRenderError("excel", path, err)
		}
		f.Close()
		w.logger.Debug("wrote workbook", "module", module, "path", path)
	}

	return w.writeSummaryWorkbook(res)
}

// writeSummaryWorkbook writes every module to one sheet each of a single
// consolidated workbook.
func (w *ExcelWriter) writeSummaryWorkbook(res *analytics.Results) error {
	path := filepath.Join(w.cfg.Data.OutputDir, "00_analytics_summary.xlsx")
	f := excelize.NewFile()
	defer f.Close()

	for i, module := range analytics.ModuleOrder {
		sheet := analytics.ModuleTitles[module]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return apperrors.NewRenderError("excel", path, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return apperrors.NewRenderError("excel", path, err)
			}
		}
		if err := w.writeModuleSheet(f, sheet, module, res); err != nil {
			return apperrors.NewRenderError("excel", path, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewRenderError("excel", path, err)
	}
	w.logger.Info("wrote summary workbook", "path", path)
	return nil
}

func (w *ExcelWriter) writeModuleSheet(f *excelize.File, sheet, module string, res *analytics.Results) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
		Fill: excelize.Fill{Type: "pattern", Color: []string{fillTitle}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{fillHeader}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", analytics.ModuleTitles[module]); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", titleStyle); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A2", "Metric"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "B2", "Value"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A2", "B2", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 42); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 22); err != nil {
		return err
	}

	rows := w.moduleRows(module, res)
	for i, row := range rows {
		n := i + 3
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row.Label); err != nil {
			return err
		}
		cell := fmt.Sprintf("B%d", n)
		if err := w.writeValue(f, sheet, cell, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) writeValue(f *excelize.File, sheet, cell string, row metricRow) error {
	v, isFloat := row.Value.(float64)
	if isFloat && math.IsNaN(v) {
		return f.SetCellValue(sheet, cell, "n/a")
	}
	if err := f.SetCellValue(sheet, cell, row.Value); err != nil {
		return err
	}

	style := excelize.Style{}
	switch row.Kind {
	case kindPercent, kindSignedPercent:
		style.NumFmt = 10 // 0.00%
	case kindMoney:
		style.CustomNumFmt = strPtr(`"$"#,##0.00`)
	case kindCount:
		style.CustomNumFmt = strPtr(`#,##0`)
	case kindRatio:
		style.CustomNumFmt = strPtr(`0.00`)
	default:
		return nil
	}
	if row.Kind == kindSignedPercent && isFloat {
		fill := fillPositive
		if v < 0 {
			fill = fillNegative
		}
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1}
	}

	id, err := f.NewStyle(&style)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, id)
}

// moduleRows flattens one module's result into labelled metric rows. Failed
// modules get a single explanatory row.
func (w *ExcelWriter) moduleRows(module string, res *analytics.Results) []metricRow {
	if err, failed := res.Failed(module); failed {
		return []metricRow{{
			Label: "Module skipped",
			Value: fmt.Sprintf("%s [%s]", err.Detail, err.Kind),
			Kind:  kindText,
		}}
	}

	switch module {
	case analytics.ModuleDescriptive:
		d := res.Descriptive
		return []metricRow{
			{"Start date", d.StartDate.Format("2006-01-02"), kindText},
			{"End date", d.EndDate.Format("2006-01-02"), kindText},
			{"Total trading days", float64(d.Rows), kindCount},
			{"Average daily volume", d.VolumeMean, kindCount},
			{"Lowest low", d.LowMin, kindMoney},
			{"Highest high", d.HighMax, kindMoney},
			{"Average closing price", d.CloseMean, kindMoney},
			{"Minimum close", d.CloseMin, kindMoney},
			{"Maximum close", d.CloseMax, kindMoney},
			{"Closing price std dev", d.CloseStd, kindMoney},
		}
	case analytics.ModulePerformance:
		p := res.Performance
		return []metricRow{
			{"Total return", p.TotalReturn, kindSignedPercent},
			{"Annualized return", p.AnnualizedReturn, kindSignedPercent},
			{"Annualized volatility", p.AnnualizedVolatility, kindPercent},
		}
	case analytics.ModuleTechnical:
		t := res.Technical
		rows := []metricRow{
			{"Current price", t.CurrentClose, kindMoney},
		}
		windows := make([]int, 0, len(t.CurrentMA))
		for win := range t.CurrentMA {
			windows = append(windows, win)
		}
		sort.Ints(windows)
		for _, win := range windows {
			rows = append(rows, metricRow{
				fmt.Sprintf("%d-day SMA", win), t.CurrentMA[win], kindMoney,
			})
		}
		rows = append(rows,
			metricRow{fmt.Sprintf("RSI (%d-day)", t.RSIWindow), t.CurrentRSI, kindRatio},
			metricRow{"Signal", string(t.Signal), kindText},
		)
		return rows
	case analytics.ModuleRisk:
		r := res.Risk
		rows := []metricRow{
			{fmt.Sprintf("Value at Risk (%.0f%%, daily)", r.VaRConfidence*100), r.VaR, kindSignedPercent},
			{"Maximum drawdown", r.MaxDrawdown, kindSignedPercent},
		}
		if r.SharpeDefined {
			rows = append(rows, metricRow{"Sharpe ratio", r.Sharpe, kindRatio})
		} else {
			rows = append(rows, metricRow{"Sharpe ratio", "undefined (zero volatility)", kindText})
		}
		return rows
	case analytics.ModuleTimeSeries:
		ts := res.TimeSeries
		rows := []metricRow{
			{"Best performing month", ts.BestMonth.String(), kindText},
			{"Best month mean daily return", ts.BestMean, kindSignedPercent},
			{"Worst performing month", ts.WorstMonth.String(), kindText},
			{"Worst month mean daily return", ts.WorstMean, kindSignedPercent},
		}
		for _, y := range ts.Yearly {
			rows = append(rows, metricRow{
				fmt.Sprintf("%d mean daily return", y.Year), y.Mean, kindSignedPercent,
			})
		}
		return rows
	case analytics.ModuleVolatility:
		v := res.Volatility
		condition := "NORMAL VOLATILITY"
		if v.HighVolatility {
			condition = "HIGH VOLATILITY"
		}
		return []metricRow{
			{fmt.Sprintf("Current %d-day volatility", v.Window), v.Current, kindPercent},
			{"Average volatility", v.Average, kindPercent},
			{"High volatility threshold", v.HighThreshold, kindPercent},
			{"Volatility cluster days", float64(len(v.ClusterDates)), kindCount},
			{"Lag-1 autocorrelation", v.Lag1Autocorr, kindRatio},
			{"Current market condition", condition, kindText},
		}
	case analytics.ModulePredictive:
		p := res.Predictive
		signal := "none"
		switch p.CurrentSignal {
		case analytics.GoldenCross:
			signal = "GOLDEN CROSS"
		case analytics.DeathCross:
			signal = "DEATH CROSS"
		}
		rows := []metricRow{
			{"Short MA window", float64(p.ShortWindow), kindCount},
			{"Long MA window", float64(p.LongWindow), kindCount},
			{"Trend", string(p.Trend), kindText},
			{"Crossover events", float64(len(p.Crossovers)), kindCount},
			{"Current signal", signal, kindText},
		}
		for _, c := range p.Crossovers {
			rows = append(rows, metricRow{
				c.Date.Format("2006-01-02"), string(c.Type), kindText,
			})
		}
		return rows
	case analytics.ModuleStrategy:
		st := res.Strategy
		verdict := "Buy & Hold BEATS Strategy"
		if st.StrategyBeats {
			verdict = "Strategy BEATS Buy & Hold"
		}
		return []metricRow{
			{"Strategy total return", st.StrategyReturn, kindSignedPercent},
			{"Buy & Hold return", st.BuyHoldReturn, kindSignedPercent},
			{"Outperformance", st.Outperformance, kindSignedPercent},
			{"Days in market", float64(st.DaysInMarket), kindCount},
			{"Trading days", float64(st.TradingDays), kindCount},
			{"Result", verdict, kindText},
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
