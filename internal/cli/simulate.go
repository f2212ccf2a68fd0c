package cli

import (
	"github.com/spf13/cobra"

	"earnings-alerts/internal/app"
)

var (
	simulateTicker  string
	simulateDate    string
	simulateSession string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Send a synthetic earnings alert through the configured channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.SimulateOptions{
			Ticker:  simulateTicker,
			Date:    simulateDate,
			Session: simulateSession,
		}
		return getApp().SimulateAlert(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateTicker, "ticker", "TEST", "Ticker for the synthetic report")
	simulateCmd.Flags().StringVar(&simulateDate, "date", "", "Report date (YYYY-MM-DD, defaults to the next trading day)")
	simulateCmd.Flags().StringVar(&simulateSession, "session", "postmarket", "Announced time of day, e.g. premarket or 8:00 am")
}
