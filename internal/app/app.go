package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"earnings-alerts/internal/alerting"
	"earnings-alerts/internal/config"
	"earnings-alerts/internal/fetcher"
	"earnings-alerts/internal/ledger"
	"earnings-alerts/internal/scheduler"
	"earnings-alerts/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSources() (fetcher.ReportSource, fetcher.HoldingsSource) {
	sheet := fetcher.NewSheet(fetcher.SheetOptions{
		URL:       a.Config.Sheet.URL,
		Timeout:   a.Config.Sheet.RequestTimeout,
		UserAgent: a.Config.Sheet.UserAgent,
	}, a.Logger)

	var holdings fetcher.HoldingsSource
	if a.Config.Mailbox.Enabled {
		holdings = fetcher.NewMailbox(fetcher.MailboxOptions{
			Address:  a.Config.Mailbox.Address,
			Username: a.Config.Mailbox.Username,
			Password: a.Config.Mailbox.Password,
			Folder:   a.Config.Mailbox.Folder,
			Sender:   a.Config.Mailbox.Sender,
		}, a.Logger)
	}

	return sheet, holdings
}

func (a *App) newNotifier() alerting.Notifier {
	var channels alerting.Fanout
	for _, name := range a.Config.Alerting.Channels {
		switch name {
		case "console":
			channels = append(channels, alerting.NewConsoleNotifier(nil, a.Logger))
		case "email":
			cfg := a.Config.Alerting.Email
			if !cfg.Enabled {
				a.Logger.Warn().Msg("email channel listed but alerting.email.enabled is false")
				continue
			}
			channels = append(channels, alerting.NewEmailNotifier(alerting.EmailOptions{
				Host:     cfg.Host,
				Port:     cfg.Port,
				Username: cfg.Username,
				Password: cfg.Password,
				From:     cfg.From,
				To:       cfg.To,
			}, a.Logger))
		default:
			a.Logger.Warn().Str("channel", name).Msg("unknown alert channel ignored")
		}
	}
	if len(channels) == 0 {
		return nil
	}
	return channels
}

func (a *App) openLedger(ctx context.Context) (ledger.Ledger, func(), error) {
	switch a.Config.Ledger.Backend {
	case "postgres":
		pool, err := ledger.NewPool(ctx, a.Config.Database)
		if err != nil {
			return nil, nil, err
		}
		led := ledger.NewPostgresLedger(pool, a.Logger)
		if err := led.EnsureSchema(ctx); err != nil {
			led.Close()
			return nil, nil, fmt.Errorf("ensure ledger schema: %w", err)
		}
		return led, led.Close, nil
	default:
		return ledger.NewFileLedger(a.Config.Ledger.Path, a.Logger), nil, nil
	}
}

// Run executes the long-running alert service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	led, closeLedger, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	if closeLedger != nil {
		defer closeLedger()
	}

	sched, err := scheduler.New(scheduler.Options{
		Cron:       a.Config.Scheduler.Cron,
		Timezone:   a.Config.Scheduler.Timezone,
		RunOnStart: a.Config.Scheduler.RunOnStart,
	}, a.Logger)
	if err != nil {
		return err
	}

	source, holdings := a.newSources()
	notifier := a.newNotifier()
	if notifier == nil {
		a.Logger.Warn().Msg("no alert channels configured; due alerts will only be logged")
	}

	svc := service.New(a.Config, sched, source, holdings, led, notifier, a.Logger)

	a.Logger.Info().Msg("starting earnings alert service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("earnings alert service stopped")
	return nil
}

// ScanOptions configure a one-shot scan.
type ScanOptions struct {
	Date   string
	DryRun bool
}

// ShowOptions configure the schedule listing.
type ShowOptions struct {
	Days int
}

// HistoryOptions configure the sent-alert listing.
type HistoryOptions struct {
	Limit int
}

// CleanupOptions configure ledger retention.
type CleanupOptions struct {
	KeepDays int
}

// ExportOptions hold parameters for exporting the upcoming alert schedule.
type ExportOptions struct {
	Days      int
	CSVPath   string
	PNGPath   string
	MaxPoints int
}

// SimulateOptions configure a synthetic alert.
type SimulateOptions struct {
	Ticker  string
	Date    string
	Session string
}
