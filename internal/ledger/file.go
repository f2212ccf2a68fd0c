package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"earnings-alerts/internal/engine"
)

// FileLedger stores records as a JSON array in a single file. Every write
// rewrites the whole file through a temp file plus rename, so a crash can
// lose at most the record being written, never corrupt earlier ones.
type FileLedger struct {
	path   string
	logger zerolog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewFileLedger builds a ledger backed by the JSON file at path. The file
// does not have to exist yet.
func NewFileLedger(path string, logger zerolog.Logger) *FileLedger {
	return &FileLedger{
		path:   path,
		logger: logger.With().Str("component", "ledger").Logger(),
		now:    time.Now,
	}
}

// load reads the ledger file. Missing, unreadable, or corrupt files degrade
// to an empty ledger: a duplicate alert is cheaper than refusing to run.
func (l *FileLedger) load() []Record {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn().Err(err).Str("path", l.path).Msg("ledger unreadable, starting empty")
		}
		return nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		l.logger.Warn().Err(err).Str("path", l.path).Msg("ledger corrupt, starting empty")
		return nil
	}
	return records
}

// save replaces the ledger file atomically. Unlike load, save failures are
// fatal to the caller: continuing after a failed write would re-send alerts
// on the next run.
func (l *FileLedger) save(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close ledger temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Records returns every stored record.
func (l *FileLedger) Records(ctx context.Context) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(), nil
}

// HasBeenSent reports whether the key is present.
func (l *FileLedger) HasBeenSent(ctx context.Context, ticker, reportDate string, offset int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range l.load() {
		if rec.matches(ticker, reportDate, offset) {
			return true, nil
		}
	}
	return false, nil
}

// MarkSent appends the key unless it is already present.
func (l *FileLedger) MarkSent(ctx context.Context, ticker, reportDate string, offset int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := l.load()
	for _, rec := range records {
		if rec.matches(ticker, reportDate, offset) {
			return nil
		}
	}

	records = append(records, newRecord(ticker, reportDate, l.now().UTC(), offset))
	return l.save(records)
}

// FilterUnsent returns the due alerts without a record under offset, in
// input order.
func (l *FileLedger) FilterUnsent(ctx context.Context, due []engine.AlertDue, offset int) ([]engine.AlertDue, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := l.load()
	unsent := make([]engine.AlertDue, 0, len(due))
	for _, d := range due {
		sent := false
		for _, rec := range records {
			if rec.matches(d.Report.Ticker, d.Report.DateKey(), offset) {
				sent = true
				break
			}
		}
		if sent {
			l.logger.Debug().
				Str("ticker", d.Report.Ticker).
				Str("report_date", d.Report.DateKey()).
				Msg("alert already sent, skipped")
			continue
		}
		unsent = append(unsent, d)
	}
	return unsent, nil
}

// CleanupOld drops records sent more than keepDays days before now.
// Survivors keep their order.
func (l *FileLedger) CleanupOld(ctx context.Context, keepDays int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().UTC().AddDate(0, 0, -keepDays)
	records := l.load()

	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if !rec.SentAt.Before(cutoff) {
			kept = append(kept, rec)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := l.save(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

var _ Ledger = (*FileLedger)(nil)
