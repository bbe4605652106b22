// Package loader reads historical OHLCV data from a spreadsheet or CSV file
// and produces the immutable PriceSeries the analytics modules consume.
//
// Two row encodings are accepted: native tabular columns
// (Date, Open, High, Low, Close, Adj Close, Volume) or a single column whose
// cells contain the same seven values comma-joined. The loader detects which
// encoding is present and normalizes.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "stocklens/internal/errors"
	"stocklens/internal/series"
)

// LoadReport describes what the loader kept and what it discarded.
type LoadReport struct {
	TotalRows     int
	LoadedRows    int
	DroppedRows   int
	DuplicateRows int
}

// Loader reads and cleans price data files.
type Loader struct {
	logger *slog.Logger
}

// New creates a Loader. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the file at path, cleans it and returns a sorted PriceSeries.
// The file format is chosen by extension: .xlsx via excelize, anything else
// is treated as CSV.
func (l *Loader) Load(path string) (*series.PriceSeries, *LoadReport, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = l.readExcel(path)
	default:
		rows, err = l.readCSV(path)
	}
	if err != nil {
		return nil, nil, err
	}

	return l.buildSeries(path, rows)
}

// readExcel extracts all rows of the first non-empty sheet.
func (l *Loader) readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataError(apperrors.KindUnreadableFile, path, err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(rows) > 0 {
			l.logger.Debug("reading sheet", "sheet", name, "rows", len(rows))
			return rows, nil
		}
	}

	return nil, apperrors.NewDataError(apperrors.KindEmptyDataset, path,
		fmt.Errorf("no sheet with data found"))
}

func (l *Loader) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError(apperrors.KindUnreadableFile, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewDataError(apperrors.KindBadFormat, path, err)
	}
	return rows, nil
}

// buildSeries normalizes raw rows into typed bars, dropping bad rows with a
// count, sorting by date and rejecting duplicates.
func (l *Loader) buildSeries(path string, rows [][]string) (*series.PriceSeries, *LoadReport, error) {
	if len(rows) == 0 {
		return nil, nil, apperrors.NewDataError(apperrors.KindEmptyDataset, path, nil)
	}

	dataStart := 0
	if isHeaderRow(rows[0]) {
		dataStart = 1
	}

	report := &LoadReport{TotalRows: len(rows) - dataStart}
	if report.TotalRows == 0 {
		return nil, nil, apperrors.NewDataError(apperrors.KindEmptyDataset, path, nil)
	}

	var (
		bars       []series.Bar
		dateErrors int
	)

	for i := dataStart; i < len(rows); i++ {
		fields := normalizeRow(rows[i])
		if fields == nil {
			report.DroppedRows++
			continue
		}

		bar, err := parseBar(fields)
		if err != nil {
			if errors.Is(err, errBadDate) {
				dateErrors++
			}
			l.logger.Warn("dropping unparsable row",
				"line", i+1,
				"error", err,
			)
			report.DroppedRows++
			continue
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		if dateErrors > 0 && dateErrors >= report.TotalRows {
			return nil, nil, apperrors.NewDataError(apperrors.KindInvalidDate, path,
				fmt.Errorf("no row has a parsable date (%d attempted)", dateErrors))
		}
		return nil, nil, apperrors.NewDataError(apperrors.KindEmptyDataset, path,
			fmt.Errorf("%d rows read, none valid", report.TotalRows))
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	// Later duplicates are dropped so the series keeps strictly ascending,
	// unique dates.
	deduped := bars[:1]
	for _, b := range bars[1:] {
		if b.Date.Equal(deduped[len(deduped)-1].Date) {
			report.DuplicateRows++
			report.DroppedRows++
			continue
		}
		deduped = append(deduped, b)
	}

	report.LoadedRows = len(deduped)
	if report.DroppedRows > 0 {
		l.logger.Warn("dropped invalid rows",
			"dropped", report.DroppedRows,
			"duplicates", report.DuplicateRows,
			"loaded", report.LoadedRows,
		)
	}
	l.logger.Info("loaded price series",
		"path", path,
		"rows", report.LoadedRows,
		"from", deduped[0].Date.Format("2006-01-02"),
		"to", deduped[len(deduped)-1].Date.Format("2006-01-02"),
	)

	return &series.PriceSeries{Bars: deduped}, report, nil
}

// normalizeRow converts a raw row into exactly seven string fields, handling
// the comma-joined single-column encoding. Returns nil for rows that cannot
// hold a full record.
func normalizeRow(row []string) []string {
	// Trim trailing empty cells excelize sometimes yields.
	for len(row) > 0 && strings.TrimSpace(row[len(row)-1]) == "" {
		row = row[:len(row)-1]
	}
	if len(row) == 0 {
		return nil
	}

	if len(row) == 1 {
		parts := strings.Split(row[0], ",")
		if len(parts) < 7 {
			return nil
		}
		row = parts
	}

	if len(row) < 7 {
		return nil
	}
	fields := make([]string, 7)
	for i := 0; i < 7; i++ {
		fields[i] = strings.TrimSpace(row[i])
	}
	return fields
}

func parseBar(fields []string) (series.Bar, error) {
	date, err := parseDate(fields[0])
	if err != nil {
		return series.Bar{}, fmt.Errorf("parse date %q: %w", fields[0], err)
	}

	values := make([]float64, 6)
	names := []string{"open", "high", "low", "close", "adj close", "volume"}
	for i, name := range names {
		v, err := parseFloat(fields[i+1])
		if err != nil {
			return series.Bar{}, fmt.Errorf("parse %s %q: %w", name, fields[i+1], err)
		}
		values[i] = v
	}

	return series.Bar{
		Date:     date,
		Open:     values[0],
		High:     values[1],
		Low:      values[2],
		Close:    values[3],
		AdjClose: values[4],
		Volume:   values[5],
	}, nil
}

var errBadDate = errors.New("unrecognized date format")

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"Jan 2, 2006",
}

func parseDate(s string) (time.Time, error) {
	for _, format := range dateFormats {
		if d, err := time.Parse(format, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errBadDate
}

func parseFloat(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

// isHeaderRow reports whether the row looks like column headers rather than
// data. A single comma-joined header cell counts too.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	text := strings.ToLower(strings.Join(row, " "))
	if strings.Contains(text, "date") &&
		(strings.Contains(text, "close") || strings.Contains(text, "volume")) {
		return true
	}
	// A first cell that fails to parse as a date is treated as a header.
	first := strings.TrimSpace(row[0])
	if len(row) == 1 {
		if comma := strings.Index(first, ","); comma >= 0 {
			first = first[:comma]
		}
	}
	_, err := parseDate(first)
	return err != nil
}
