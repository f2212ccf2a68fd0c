package cli

import (
	"github.com/spf13/cobra"

	"earnings-alerts/internal/app"
)

var (
	scanDate   string
	scanDryRun bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan for one day and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ScanOptions{
			Date:   scanDate,
			DryRun: scanDryRun,
		}
		return getApp().Scan(cmd.Context(), opts)
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanDate, "date", "", "Day to scan (YYYY-MM-DD, defaults to today)")
	scanCmd.Flags().BoolVar(&scanDryRun, "dry-run", false, "Print due alerts without delivering or recording them")
}
