package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"
)

// History lists the alerts recorded in the ledger, oldest first.
func (a *App) History(ctx context.Context, opts HistoryOptions) error {
	led, closeLedger, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	if closeLedger != nil {
		defer closeLedger()
	}

	records, err := led.Records(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts recorded")
		return nil
	}

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[len(records)-opts.Limit:]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Sent (UTC)\tTicker\tReports\tOffset")

	for _, rec := range records {
		offset := "-"
		if rec.ThresholdOffset != nil {
			offset = strconv.Itoa(*rec.ThresholdOffset)
		}
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\n",
			rec.SentAt.UTC().Format(time.RFC3339),
			rec.Ticker,
			rec.ReportDate,
			offset,
		)
	}

	writer.Flush()
	return nil
}
