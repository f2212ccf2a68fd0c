package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"earnings-alerts/internal/calendar"
	"earnings-alerts/internal/engine"
	"earnings-alerts/internal/fetcher"
	"earnings-alerts/internal/report"
)

// Show prints the upcoming report schedule with computed alert dates.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	days := opts.Days
	if days <= 0 {
		days = a.Config.Export.HorizonDays
	}

	source, holdingsSource := a.newSources()
	reports, err := source.FetchReports(ctx)
	if err != nil {
		return err
	}

	var positions map[string]fetcher.Holding
	if holdingsSource != nil {
		positions, err = holdingsSource.FetchHoldings(ctx)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("holdings unavailable, schedule shown without positions")
			positions = nil
		}
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
	if len(upcoming) == 0 {
		fmt.Fprintf(os.Stdout, "no reports scheduled in the next %d days\n", days)
		return nil
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ReportDate.Before(upcoming[j].ReportDate)
	})

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Ticker\tCompany\tReports\tAnnounced\tSession\tAlert on\tTrading days left\tUnits")

	for _, r := range upcoming {
		company := sanitizeInline(r.CompanyName)
		if company == "" {
			company = "-"
		}
		announced := sanitizeInline(r.TimeOfDay)
		if announced == "" {
			announced = "-"
		}
		units := "-"
		if h, ok := positions[r.Ticker]; ok {
			units = formatDecimal(h.Units, 2)
		}
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.Ticker,
			company,
			r.DateKey(),
			announced,
			r.Session,
			engine.AlertDateFor(r, 0).Format("2006-01-02"),
			calendar.TradingDaysBetween(today, r.ReportDate),
			units,
		)
	}

	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return strings.TrimSpace(cleaned)
}
