package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"earnings-alerts/internal/app"
)

var (
	exportDays      int
	exportPNGPath   string
	exportCSVPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the upcoming alert schedule as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportDays < 0 {
			return fmt.Errorf("--days cannot be negative")
		}

		opts := app.ExportOptions{
			Days:      exportDays,
			PNGPath:   exportPNGPath,
			CSVPath:   exportCSVPath,
			MaxPoints: exportMaxPoints,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Calendar days to look ahead (defaults to config)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum rows to export (defaults to config)")
}
