package cli

import (
	"github.com/spf13/cobra"

	"earnings-alerts/internal/app"
)

var (
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List alerts recorded in the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.HistoryOptions{
			Limit: historyLimit,
		}
		return getApp().History(cmd.Context(), opts)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Number of most recent entries to display (0 for all)")
}
