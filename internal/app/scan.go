package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"earnings-alerts/internal/alerting"
	"earnings-alerts/internal/service"
)

// Scan runs a single scan for one day and exits. With DryRun set the due
// alerts are printed instead of delivered, and the ledger is left untouched.
func (a *App) Scan(ctx context.Context, opts ScanOptions) error {
	day := time.Now()
	if opts.Date != "" {
		parsed, err := time.Parse("2006-01-02", opts.Date)
		if err != nil {
			return fmt.Errorf("invalid --date value: %w", err)
		}
		day = parsed
	}

	led, closeLedger, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	if closeLedger != nil {
		defer closeLedger()
	}

	source, holdings := a.newSources()

	if opts.DryRun {
		svc := service.New(a.Config, nil, source, holdings, led, nil, a.Logger)
		note, err := svc.PreviewDay(ctx, day)
		if err != nil {
			return err
		}
		return alerting.NewConsoleNotifier(os.Stdout, a.Logger).Notify(ctx, note)
	}

	svc := service.New(a.Config, nil, source, holdings, led, a.newNotifier(), a.Logger)
	return svc.ProcessDay(ctx, day)
}
