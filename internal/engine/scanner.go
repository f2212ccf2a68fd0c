package engine

import (
	"sort"
	"time"

	"earnings-alerts/internal/calendar"
	"earnings-alerts/internal/report"
)

// AlertDue is one alert that should go out on the scanned day.
type AlertDue struct {
	Report report.Report
	// AlertDate is the day the alert fires, always equal to the scanned day.
	AlertDate time.Time
	// DaysUntilReport counts trading days from the alert to the report,
	// 0 when the report lands the same day.
	DaysUntilReport int
	// ThresholdOffset is the configured offset that matched, so callers can
	// keep per-offset alerts apart in the ledger.
	ThresholdOffset int
}

// FindDue returns the reports whose alert date falls on day for any of the
// configured offsets. Each report appears at most once, the first matching
// offset wins. Results are ordered by report date; reports sharing a date
// keep their input order.
func FindDue(reports []report.Report, day time.Time, offsets []int) []AlertDue {
	target := calendar.Normalize(day)
	if len(offsets) == 0 {
		offsets = []int{0}
	}

	var due []AlertDue
	for _, r := range reports {
		// Upstream sources drop rows with unreadable dates; a zero date that
		// leaks through anyway must not match anything.
		if r.ReportDate.IsZero() {
			continue
		}
		for _, offset := range offsets {
			if !AlertDateFor(r, offset).Equal(target) {
				continue
			}
			due = append(due, AlertDue{
				Report:          r,
				AlertDate:       target,
				DaysUntilReport: calendar.TradingDaysBetween(target, r.ReportDate),
				ThresholdOffset: offset,
			})
			break
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Report.ReportDate.Before(due[j].Report.ReportDate)
	})
	return due
}
