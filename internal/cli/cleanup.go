package cli

import (
	"github.com/spf13/cobra"

	"earnings-alerts/internal/app"
)

var (
	cleanupKeepDays int
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Drop ledger entries older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.CleanupOptions{
			KeepDays: cleanupKeepDays,
		}
		return getApp().Cleanup(cmd.Context(), opts)
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupKeepDays, "keep-days", 0, "Retention window in days (defaults to config)")
}
