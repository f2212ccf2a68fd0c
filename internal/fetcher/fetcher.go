package fetcher

import (
	"context"

	"github.com/shopspring/decimal"

	"earnings-alerts/internal/report"
)

// ReportSource retrieves the upcoming earnings schedule.
type ReportSource interface {
	FetchReports(ctx context.Context) ([]report.Report, error)
}

// Holding is one position from the latest broker statement.
type Holding struct {
	Ticker string
	Units  decimal.Decimal
	Value  decimal.Decimal
}

// HoldingsSource retrieves current positions keyed by ticker, used to attach
// exposure to outgoing alerts.
type HoldingsSource interface {
	FetchHoldings(ctx context.Context) (map[string]Holding, error)
}
