// Package ledger persists which alerts have already gone out, so repeated
// scans of the same day never notify twice. Records are keyed by ticker,
// report date, and the threshold offset the alert was sent for.
package ledger

import (
	"context"
	"strings"
	"time"

	"earnings-alerts/internal/engine"
)

// AnyOffset marks a record that is not tied to a particular threshold
// offset. Deployments with a single offset use it so ledger keys stay stable
// when the offset value is reconfigured.
const AnyOffset = -1

// Record is one sent alert.
type Record struct {
	Ticker string `json:"ticker"`
	// ReportDate is the report's date in ISO form (2006-01-02).
	ReportDate string    `json:"reportDate"`
	SentAt     time.Time `json:"sentAt"`
	// ThresholdOffset is nil for records written under AnyOffset.
	ThresholdOffset *int `json:"thresholdOffset,omitempty"`
}

func newRecord(ticker, reportDate string, sentAt time.Time, offset int) Record {
	rec := Record{Ticker: strings.ToUpper(ticker), ReportDate: reportDate, SentAt: sentAt}
	if offset != AnyOffset {
		value := offset
		rec.ThresholdOffset = &value
	}
	return rec
}

// matches reports whether the record carries the given key. Tickers compare
// case-insensitively; AnyOffset only matches records without an offset.
func (r Record) matches(ticker, reportDate string, offset int) bool {
	if !strings.EqualFold(r.Ticker, ticker) || r.ReportDate != reportDate {
		return false
	}
	if offset == AnyOffset {
		return r.ThresholdOffset == nil
	}
	return r.ThresholdOffset != nil && *r.ThresholdOffset == offset
}

// Ledger is the persistence contract for sent alerts.
type Ledger interface {
	// Records returns every stored record.
	Records(ctx context.Context) ([]Record, error)
	// HasBeenSent reports whether an alert under the given key went out.
	HasBeenSent(ctx context.Context, ticker, reportDate string, offset int) (bool, error)
	// MarkSent stores the key with the current time. Marking an existing
	// key again is a no-op.
	MarkSent(ctx context.Context, ticker, reportDate string, offset int) error
	// FilterUnsent returns the due alerts, in input order, that have no
	// record under the given offset. Skipped alerts are logged.
	FilterUnsent(ctx context.Context, due []engine.AlertDue, offset int) ([]engine.AlertDue, error)
	// CleanupOld drops records sent more than keepDays days ago and returns
	// how many were removed.
	CleanupOld(ctx context.Context, keepDays int) (int, error)
}
