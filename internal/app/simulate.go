package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"earnings-alerts/internal/calendar"
	"earnings-alerts/internal/engine"
	"earnings-alerts/internal/fetcher"
	"earnings-alerts/internal/report"
	"earnings-alerts/internal/service"
)

// SimulateAlert pushes a synthetic earnings alert through the configured
// channels. The ledger stays out of the loop so a simulation never blocks a
// real alert for the same ticker.
func (a *App) SimulateAlert(ctx context.Context, opts SimulateOptions) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is disabled in config")
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no alert channels configured")
	}

	ticker := strings.ToUpper(strings.TrimSpace(opts.Ticker))
	if ticker == "" {
		ticker = "TEST"
	}

	reportDate := calendar.NextTradingDay(time.Now())
	if opts.Date != "" {
		parsed, err := time.Parse("2006-01-02", opts.Date)
		if err != nil {
			return fmt.Errorf("invalid --date value: %w", err)
		}
		reportDate = calendar.Normalize(parsed)
	}

	rep := report.New(ticker, "Simulated Holdings Co.", reportDate, opts.Session)
	day := engine.AlertDateFor(rep, 0)

	source := &staticReportSource{reports: []report.Report{rep}}
	svc := service.New(a.Config, nil, source, nil, nil, notifier, a.Logger)

	a.Logger.Info().
		Str("ticker", ticker).
		Str("report_date", rep.DateKey()).
		Str("alert_day", day.Format("2006-01-02")).
		Msg("simulating alert")
	return svc.ProcessDay(ctx, day)
}

type staticReportSource struct {
	reports []report.Report
}

func (s *staticReportSource) FetchReports(ctx context.Context) ([]report.Report, error) {
	return s.reports, nil
}

var _ fetcher.ReportSource = (*staticReportSource)(nil)
