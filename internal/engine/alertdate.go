// Package engine computes, for each earnings report, the trading day on
// which a position alert should go out. The rule is driven by the report's
// session: a postmarket report still leaves its own day tradable, while a
// premarket (or unclassifiable) report makes the prior trading day the last
// safe one.
package engine

import (
	"time"

	"earnings-alerts/internal/calendar"
	"earnings-alerts/internal/report"
	"earnings-alerts/internal/session"
)

// AlertDateFor returns the day the alert for r should fire when the operator
// wants offset additional trading days of lead time. Offset 0 is the last
// tradable day itself, offset 1 the trading day before it, and so on.
func AlertDateFor(r report.Report, offset int) time.Time {
	day := calendar.Normalize(r.ReportDate)
	if r.Session != session.Postmarket {
		// Premarket and unknown sessions are treated alike: assume the
		// report may land before the open, so the prior session is the
		// last chance to act.
		day = calendar.PreviousTradingDay(day)
	}
	day = calendar.TradingDayOnOrBefore(day)
	for i := 0; i < offset; i++ {
		day = calendar.PreviousTradingDay(day)
	}
	return day
}
