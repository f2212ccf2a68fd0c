package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"earnings-alerts/internal/session"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestSheetFetchMissingURL(t *testing.T) {
	s := NewSheet(SheetOptions{}, testLogger())
	if _, err := s.FetchReports(context.Background()); err == nil {
		t.Fatal("FetchReports() without a URL should fail")
	}
}

func TestSheetFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not published", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSheet(SheetOptions{URL: srv.URL, Timeout: time.Second}, testLogger())
	if _, err := s.FetchReports(context.Background()); err == nil {
		t.Fatal("FetchReports() should surface an HTTP error")
	}
}

func TestSheetFetchSuccess(t *testing.T) {
	const payload = `ticker,report_date,time_of_day
aapl,2026-08-19,after close
MSFT,Microsoft Corp.,8/20/2026,premarket
,2026-08-21,no ticker
BAD,not-a-date,
NVDA,NVIDIA Corp.,2026-08-26,"8:00 am ET"
TSLA,Tesla Inc.,2026-08-27
`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	s := NewSheet(SheetOptions{URL: srv.URL, Timeout: time.Second, UserAgent: "test"}, testLogger())
	reports, err := s.FetchReports(context.Background())
	if err != nil {
		t.Fatalf("FetchReports() error: %v", err)
	}

	if len(reports) != 4 {
		t.Fatalf("FetchReports() returned %d reports, want 4", len(reports))
	}

	if reports[0].Ticker != "AAPL" || reports[0].DateKey() != "2026-08-19" || reports[0].TimeOfDay != "after close" {
		t.Errorf("unexpected first report: %+v", reports[0])
	}
	if reports[0].CompanyName != "" {
		t.Errorf("first report has no company column, got %q", reports[0].CompanyName)
	}
	if reports[0].Session != session.Postmarket {
		t.Errorf("first report session = %s, want postmarket", reports[0].Session)
	}
	// US-style dates and a company column together.
	if reports[1].Ticker != "MSFT" || reports[1].CompanyName != "Microsoft Corp." || reports[1].DateKey() != "2026-08-20" {
		t.Errorf("unexpected second report: %+v", reports[1])
	}
	if reports[2].Ticker != "NVDA" || reports[2].TimeOfDay != "8:00 am ET" {
		t.Errorf("unexpected third report: %+v", reports[2])
	}
	if reports[2].Session != session.Premarket {
		t.Errorf("third report session = %s, want premarket", reports[2].Session)
	}
	// Company column but no time-of-day column.
	if reports[3].Ticker != "TSLA" || reports[3].CompanyName != "Tesla Inc." || reports[3].TimeOfDay != "" {
		t.Errorf("unexpected fourth report: %+v", reports[3])
	}
	if reports[3].Session != session.Unknown {
		t.Errorf("fourth report session = %s, want unknown", reports[3].Session)
	}
}

func TestSheetFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
	}))
	defer srv.Close()

	s := NewSheet(SheetOptions{URL: srv.URL, Timeout: time.Second}, testLogger())
	reports, err := s.FetchReports(context.Background())
	if err != nil {
		t.Fatalf("FetchReports() error on empty sheet: %v", err)
	}
	if len(reports) != 0 {
		t.Fatalf("FetchReports() returned %d reports from empty sheet, want 0", len(reports))
	}
}
