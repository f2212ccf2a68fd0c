// Package alerting delivers due-alert digests over the configured channels.
// One notification covers a whole scan, so a busy reporting day produces one
// email, not twenty.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"earnings-alerts/internal/fetcher"
	"earnings-alerts/internal/report"
)

// Alert is one due report enriched for delivery.
type Alert struct {
	Report          report.Report
	DaysUntilReport int
	ThresholdOffset int
	// Holding is the current position, nil when none is known.
	Holding *fetcher.Holding
}

// Notification is one scan's worth of due alerts.
type Notification struct {
	ScanDay time.Time
	Alerts  []Alert
}

// Notifier delivers a notification over one channel.
type Notifier interface {
	Notify(ctx context.Context, note Notification) error
}

// Fanout delivers to every channel. A failing channel does not stop the
// others; the combined failures come back joined.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, note Notification) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ConsoleNotifier prints the digest as a table, to stdout by default.
type ConsoleNotifier struct {
	out    io.Writer
	logger zerolog.Logger
}

// NewConsoleNotifier constructs a console channel writing to out.
func NewConsoleNotifier(out io.Writer, logger zerolog.Logger) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleNotifier{
		out:    out,
		logger: logger.With().Str("component", "alert_console").Logger(),
	}
}

// Notify implements Notifier.
func (n *ConsoleNotifier) Notify(ctx context.Context, note Notification) error {
	fmt.Fprintf(n.out, "Earnings alerts for %s (%d due)\n", note.ScanDay.Format("2006-01-02"), len(note.Alerts))

	writer := tabwriter.NewWriter(n.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Ticker\tReports\tSession\tTrading days left\tPosition")
	for _, alert := range note.Alerts {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n",
			alert.Report.Ticker,
			alert.Report.DateKey(),
			alert.Report.Session,
			alert.DaysUntilReport,
			formatHolding(alert.Holding),
		)
	}
	return writer.Flush()
}

func formatHolding(h *fetcher.Holding) string {
	if h == nil {
		return "-"
	}
	if h.Value.IsZero() {
		return fmt.Sprintf("%s units", h.Units.String())
	}
	return fmt.Sprintf("%s units ($%s)", h.Units.String(), h.Value.StringFixed(2))
}

var (
	_ Notifier = (Fanout)(nil)
	_ Notifier = (*ConsoleNotifier)(nil)
)
