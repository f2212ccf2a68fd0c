// Package report defines the earnings report model shared by the fetchers,
// the alert engine, and the ledger.
package report

import (
	"fmt"
	"strings"
	"time"

	"earnings-alerts/internal/calendar"
	"earnings-alerts/internal/session"
)

// Report is one announced earnings publication.
type Report struct {
	// Ticker is the upper-case exchange symbol.
	Ticker string
	// CompanyName is the display name from the source. May be empty.
	CompanyName string
	// ReportDate is the announced publication date, normalized to midnight UTC.
	ReportDate time.Time
	// Session is the classified announcement session.
	Session session.Category
	// TimeOfDay is the session annotation exactly as the source gave it,
	// e.g. "after close" or "8:00 am ET". Empty when the source had none.
	TimeOfDay string
}

// New builds a Report with the ticker upper-cased, the date normalized, and
// the session classified once, so that reports from different sources
// compare cleanly.
func New(ticker, companyName string, reportDate time.Time, timeOfDay string) Report {
	timeOfDay = strings.TrimSpace(timeOfDay)
	return Report{
		Ticker:      strings.ToUpper(strings.TrimSpace(ticker)),
		CompanyName: strings.TrimSpace(companyName),
		ReportDate:  calendar.Normalize(reportDate),
		Session:     session.Classify(timeOfDay),
		TimeOfDay:   timeOfDay,
	}
}

// DateKey returns the report date in ISO form, the key format used by the
// sent-alert ledger.
func (r Report) DateKey() string {
	return r.ReportDate.Format("2006-01-02")
}

func (r Report) String() string {
	if r.TimeOfDay == "" {
		return fmt.Sprintf("%s on %s", r.Ticker, r.DateKey())
	}
	return fmt.Sprintf("%s on %s (%s)", r.Ticker, r.DateKey(), r.TimeOfDay)
}
