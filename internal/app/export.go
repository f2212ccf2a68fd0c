package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"earnings-alerts/internal/calendar"
	"earnings-alerts/internal/engine"
	"earnings-alerts/internal/report"
)

// scheduleRow is one alert occurrence inside the export window, one row per
// report and configured offset.
type scheduleRow struct {
	Report    report.Report
	AlertDate time.Time
	DaysUntil int
	Offset    int
}

// Export renders the upcoming alert schedule as CSV and/or a PNG chart of
// scheduled alert density.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)
	days := opts.Days
	if days <= 0 {
		days = a.Config.Export.HorizonDays
	}

	source, _ := a.newSources()
	reports, err := source.FetchReports(ctx)
	if err != nil {
		return err
	}

	today := calendar.Normalize(time.Now())
	horizon := today.AddDate(0, 0, days)

	upcoming := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if r.ReportDate.Before(today) || !r.ReportDate.Before(horizon) {
			continue
		}
		upcoming = append(upcoming, r)
	}

	rows := buildScheduleRows(upcoming, a.Config.ResolveOffsets())
	if len(rows) == 0 {
		a.Logger.Info().Int("days", days).Msg("no reports scheduled inside export window")
		return nil
	}

	downsampled := downsampleRows(rows, opts.MaxPoints)
	a.Logger.Info().Int("total", len(rows)).Int("exported", len(downsampled)).Msg("exporting alert schedule")

	if opts.CSVPath != "" {
		if err := writeScheduleCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.writeSchedulePNG(opts.PNGPath, upcoming, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func buildScheduleRows(upcoming []report.Report, offsets []int) []scheduleRow {
	rows := make([]scheduleRow, 0, len(upcoming)*len(offsets))
	for _, r := range upcoming {
		for _, offset := range offsets {
			alertDate := engine.AlertDateFor(r, offset)
			rows = append(rows, scheduleRow{
				Report:    r,
				AlertDate: alertDate,
				DaysUntil: calendar.TradingDaysBetween(alertDate, r.ReportDate),
				Offset:    offset,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].AlertDate.Equal(rows[j].AlertDate) {
			return rows[i].AlertDate.Before(rows[j].AlertDate)
		}
		if !rows[i].Report.ReportDate.Equal(rows[j].Report.ReportDate) {
			return rows[i].Report.ReportDate.Before(rows[j].Report.ReportDate)
		}
		return rows[i].Report.Ticker < rows[j].Report.Ticker
	})
	return rows
}

func downsampleRows(rows []scheduleRow, max int) []scheduleRow {
	if max <= 0 || len(rows) <= max {
		return rows
	}

	result := make([]scheduleRow, 0, max)
	step := float64(len(rows)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(rows) {
			idx = len(rows) - 1
		}
		result = append(result, rows[idx])
	}
	return result
}

func writeScheduleCSV(path string, rows []scheduleRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"alert_date", "ticker", "company", "report_date", "announced", "session", "threshold_offset", "trading_days_until_report"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.AlertDate.Format("2006-01-02"),
			row.Report.Ticker,
			sanitizeInline(row.Report.CompanyName),
			row.Report.DateKey(),
			sanitizeInline(row.Report.TimeOfDay),
			string(row.Report.Session),
			strconv.Itoa(row.Offset),
			strconv.Itoa(row.DaysUntil),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func (a *App) writeSchedulePNG(path string, upcoming []report.Report, rows []scheduleRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	alertCounts := make(map[time.Time]int)
	for _, row := range rows {
		alertCounts[row.AlertDate]++
	}
	reportCounts := make(map[time.Time]int)
	for _, r := range upcoming {
		reportCounts[r.ReportDate]++
	}

	alertX, alertY := sortedSeries(alertCounts)
	reportX, reportY := sortedSeries(reportCounts)

	// go-chart refuses series shorter than two points.
	var series []chart.Series
	if len(alertX) >= 2 {
		series = append(series, chart.TimeSeries{
			Name:    "Alerts due",
			XValues: alertX,
			YValues: alertY,
		})
	}
	if len(reportX) >= 2 {
		series = append(series, chart.TimeSeries{
			Name:    "Reports",
			XValues: reportX,
			YValues: reportY,
		})
	}
	if len(series) == 0 {
		a.Logger.Warn().Msg("not enough scheduled days to draw a chart; png skipped")
		return nil
	}

	countFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.0f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Scheduled per day",
			ValueFormatter: countFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func sortedSeries(counts map[time.Time]int) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(counts))
	for day := range counts {
		xs = append(xs, day)
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].Before(xs[j]) })

	ys := make([]float64, len(xs))
	for i, day := range xs {
		ys[i] = float64(counts[day])
	}
	return xs, ys
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
