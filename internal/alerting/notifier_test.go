package alerting

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"earnings-alerts/internal/fetcher"
	"earnings-alerts/internal/report"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testNotification() Notification {
	day := time.Date(2026, time.August, 19, 0, 0, 0, 0, time.UTC)
	return Notification{
		ScanDay: day,
		Alerts: []Alert{
			{
				Report:          report.New("AAPL", "", day, "after close"),
				DaysUntilReport: 0,
				ThresholdOffset: 0,
			},
			{
				Report:          report.New("MSFT", "Microsoft Corp.", day.AddDate(0, 0, 1), "premarket"),
				DaysUntilReport: 1,
				ThresholdOffset: 0,
				Holding: &fetcher.Holding{
					Ticker: "MSFT",
					Units:  decimal.NewFromInt(10),
					Value:  decimal.NewFromFloat(4021.50),
				},
			},
		},
	}
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf, testLogger())

	if err := n.Notify(context.Background(), testNotification()); err != nil {
		t.Fatalf("Notify() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"2 due", "AAPL", "MSFT", "2026-08-20", "10 units ($4021.50)"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderText(t *testing.T) {
	text := renderText(testNotification())

	for _, want := range []string{
		"AAPL reports on 2026-08-19 (after close)",
		"MSFT (Microsoft Corp.) reports on 2026-08-20",
		"Today is the last tradable session",
		"Reports in 1 trading day",
		"Position: 10 units ($4021.50)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("plain text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := renderHTML(testNotification())
	if err != nil {
		t.Fatalf("renderHTML() error: %v", err)
	}

	for _, want := range []string{
		`<td class="ticker">AAPL</td>`,
		`<div class="company">Microsoft Corp.</div>`,
		`<span class="due-today">today</span>`,
		"1d",
		"10 units ($4021.50)",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRenderHTMLEscapesAnnotations(t *testing.T) {
	day := time.Date(2026, time.August, 19, 0, 0, 0, 0, time.UTC)
	note := Notification{
		ScanDay: day,
		Alerts: []Alert{{
			Report: report.New("AAPL", `<b>Apple</b>`, day, `<script>alert("x")</script>`),
		}},
	}

	html, err := renderHTML(note)
	if err != nil {
		t.Fatalf("renderHTML() error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("sheet annotation reached the email unescaped")
	}
	if strings.Contains(html, "<b>Apple</b>") {
		t.Fatal("company name reached the email unescaped")
	}
}

func TestSubjectFor(t *testing.T) {
	note := testNotification()
	if got := subjectFor(note); got != "Earnings alerts for 2026-08-19: 2 positions report soon" {
		t.Errorf("subjectFor(multi) = %q", got)
	}

	note.Alerts = note.Alerts[:1]
	if got := subjectFor(note); got != "Earnings alert: AAPL reports 2026-08-19" {
		t.Errorf("subjectFor(single) = %q", got)
	}
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(ctx context.Context, note Notification) error {
	s.calls++
	return s.err
}

func TestFanoutDeliversToAllChannels(t *testing.T) {
	boom := errors.New("smtp down")
	first := &stubNotifier{err: boom}
	second := &stubNotifier{}

	err := Fanout{first, second}.Notify(context.Background(), testNotification())
	if !errors.Is(err, boom) {
		t.Fatalf("Fanout error = %v, want wrapped %v", err, boom)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("channel calls = %d, %d; a failing channel must not stop the rest", first.calls, second.calls)
	}
}

func TestEmailNotifierSkipsEmptyDigest(t *testing.T) {
	n := NewEmailNotifier(EmailOptions{}, testLogger())
	note := Notification{ScanDay: time.Now()}

	// No SMTP host is configured, so a nil error proves nothing was dialed.
	if err := n.Notify(context.Background(), note); err != nil {
		t.Fatalf("Notify() on empty digest: %v", err)
	}
}
