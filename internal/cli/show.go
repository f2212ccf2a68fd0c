package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"earnings-alerts/internal/app"
)

var (
	showDays int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the upcoming report schedule with alert dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showDays < 0 {
			return fmt.Errorf("--days cannot be negative")
		}

		opts := app.ShowOptions{
			Days: showDays,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showDays, "days", 0, "Calendar days to look ahead (defaults to config)")
}
