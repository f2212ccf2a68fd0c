package fetcher

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"earnings-alerts/internal/report"
)

// SheetOptions parameterise the earnings sheet fetcher.
type SheetOptions struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// Sheet fetches the earnings schedule published as CSV over HTTP, typically
// a spreadsheet export URL. Rows are either
//
//	ticker, report date[, time of day]
//	ticker, company name, report date[, time of day]
//
// distinguished per row by which column parses as a date. Extra trailing
// columns are ignored.
type Sheet struct {
	opts   SheetOptions
	logger zerolog.Logger
	client *http.Client
}

// NewSheet constructs a sheet fetcher.
func NewSheet(opts SheetOptions, logger zerolog.Logger) *Sheet {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Sheet{
		opts:   opts,
		logger: logger.With().Str("component", "sheet_fetcher").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

// Date formats the sheet is allowed to use.
var sheetDateFormats = []string{"2006-01-02", "1/2/2006", "01/02/2006"}

// FetchReports downloads and parses the sheet. Rows without a ticker and a
// parseable date are skipped with a warning; the sheet is hand-edited and a
// single bad row must not take the whole scan down.
func (s *Sheet) FetchReports(ctx context.Context) ([]report.Report, error) {
	if s.opts.URL == "" {
		return nil, errors.New("sheet.url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	if ua := strings.TrimSpace(s.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(payload) > 0 {
			return nil, fmt.Errorf("sheet fetch failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
		}
		return nil, fmt.Errorf("sheet fetch failed (%d)", resp.StatusCode)
	}

	return s.parse(resp.Body)
}

func (s *Sheet) parse(r io.Reader) ([]report.Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}

	reports := make([]report.Report, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		ticker := strings.TrimSpace(row[0])
		if ticker == "" {
			continue
		}

		// The date column shifts right by one when a company name is
		// present, so try both positions.
		company := ""
		dateCol := 1
		day, ok := parseSheetDate(row[1])
		if !ok && len(row) > 2 {
			if day, ok = parseSheetDate(row[2]); ok {
				company = strings.TrimSpace(row[1])
				dateCol = 2
			}
		}
		if !ok {
			// The first row with an unreadable date is usually the header.
			if i > 0 {
				s.logger.Warn().
					Int("row", i+1).
					Str("ticker", ticker).
					Str("date", row[1]).
					Msg("skipping sheet row with unreadable date")
			}
			continue
		}

		timeOfDay := ""
		if len(row) > dateCol+1 {
			timeOfDay = row[dateCol+1]
		}
		reports = append(reports, report.New(ticker, company, day, timeOfDay))
	}

	if len(reports) == 0 {
		s.logger.Warn().Msg("sheet contained no readable reports")
	}
	return reports, nil
}

func parseSheetDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	for _, format := range sheetDateFormats {
		if day, err := time.Parse(format, value); err == nil {
			return day, true
		}
	}
	return time.Time{}, false
}

var _ ReportSource = (*Sheet)(nil)
