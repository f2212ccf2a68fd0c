package app

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Cleanup removes ledger entries sent before the retention window.
func (a *App) Cleanup(ctx context.Context, opts CleanupOptions) error {
	keep := opts.KeepDays
	if keep <= 0 {
		keep = a.Config.Ledger.KeepDays
	}
	if keep <= 0 {
		return errors.New("keep-days must be greater than zero")
	}

	led, closeLedger, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	if closeLedger != nil {
		defer closeLedger()
	}

	removed, err := led.CleanupOld(ctx, keep)
	if err != nil {
		return err
	}

	a.Logger.Info().Int("removed", removed).Int("keep_days", keep).Msg("ledger cleanup finished")
	fmt.Fprintf(os.Stdout, "removed %d ledger entries older than %d days\n", removed, keep)
	return nil
}
