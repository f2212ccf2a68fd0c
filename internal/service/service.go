package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"earnings-alerts/internal/alerting"
	"earnings-alerts/internal/calendar"
	"earnings-alerts/internal/config"
	"earnings-alerts/internal/engine"
	"earnings-alerts/internal/fetcher"
	"earnings-alerts/internal/ledger"
	"earnings-alerts/internal/report"
	"earnings-alerts/internal/scheduler"
)

// Service orchestrates the daily scan: fetch the schedule, find the alerts
// due today, drop the already-sent ones, deliver, and record what went out.
type Service struct {
	scheduler *scheduler.Scheduler
	source    fetcher.ReportSource
	holdings  fetcher.HoldingsSource
	ledger    ledger.Ledger
	notifier  alerting.Notifier
	logger    zerolog.Logger

	offsets  []int
	alertsOn bool
	keepDays int
	locker   ledger.AdvisoryLocker
	lockKey  int64
}

// New constructs the scanning service. The holdings source and the ledger
// may be nil; a nil ledger disables de-duplication, which is what the
// simulate path wants.
func New(cfg *config.Config, sched *scheduler.Scheduler, source fetcher.ReportSource, holdings fetcher.HoldingsSource, led ledger.Ledger, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	var locker ledger.AdvisoryLocker
	if l, ok := led.(ledger.AdvisoryLocker); ok {
		locker = l
	}

	return &Service{
		scheduler: sched,
		source:    source,
		holdings:  holdings,
		ledger:    led,
		notifier:  notifier,
		logger:    logger.With().Str("component", "service").Logger(),
		offsets:   cfg.ResolveOffsets(),
		alertsOn:  cfg.Alerting.Enabled,
		keepDays:  cfg.Ledger.KeepDays,
		locker:    locker,
		lockKey:   cfg.Scheduler.AdvisoryLockKey,
	}
}

// Run begins the scheduled daily scan loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessDay)
}

// ProcessDay executes one scan for the given day.
func (s *Service) ProcessDay(ctx context.Context, day time.Time) error {
	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		s.logger.Debug().Str("day", day.Format("2006-01-02")).Msg("skip scan because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	return s.executeDay(ctx, day)
}

// PreviewDay returns the notification ProcessDay would deliver for the day,
// without sending or recording anything.
func (s *Service) PreviewDay(ctx context.Context, day time.Time) (alerting.Notification, error) {
	return s.collect(ctx, day)
}

func (s *Service) executeDay(ctx context.Context, day time.Time) error {
	note, err := s.collect(ctx, day)
	if err != nil {
		return err
	}

	s.cleanupLedger(ctx)

	if len(note.Alerts) == 0 {
		s.logger.Info().Str("day", note.ScanDay.Format("2006-01-02")).Msg("no alerts due")
		return nil
	}

	if !s.alertsOn || s.notifier == nil {
		s.logger.Info().
			Str("day", note.ScanDay.Format("2006-01-02")).
			Int("due", len(note.Alerts)).
			Msg("alerting disabled, alerts not delivered")
		return nil
	}

	if err := s.notifier.Notify(ctx, note); err != nil {
		// Nothing is marked sent, so the next run retries the whole batch.
		return fmt.Errorf("deliver alerts: %w", err)
	}

	for _, alert := range note.Alerts {
		if s.ledger == nil {
			break
		}
		if err := s.ledger.MarkSent(ctx, alert.Report.Ticker, alert.Report.DateKey(), s.ledgerKey(alert.ThresholdOffset)); err != nil {
			return fmt.Errorf("record sent alert: %w", err)
		}
	}

	s.logger.Info().
		Str("day", note.ScanDay.Format("2006-01-02")).
		Int("alerts", len(note.Alerts)).
		Msg("alerts delivered")
	return nil
}

// collect runs the read-only half of the scan and shapes the survivors for
// delivery.
func (s *Service) collect(ctx context.Context, day time.Time) (alerting.Notification, error) {
	scanDay := calendar.Normalize(day)
	note := alerting.Notification{ScanDay: scanDay}

	if !calendar.IsTradingDay(scanDay) {
		event := s.logger.Info().Str("day", scanDay.Format("2006-01-02"))
		if name, ok := calendar.HolidayName(scanDay); ok {
			event = event.Str("holiday", name)
		}
		event.Msg("market closed, nothing to scan")
		return note, nil
	}

	reports, err := s.source.FetchReports(ctx)
	if err != nil {
		return note, fmt.Errorf("fetch reports: %w", err)
	}

	positions := s.fetchPositions(ctx)
	scoped := reports
	if len(positions) > 0 {
		scoped = make([]report.Report, 0, len(reports))
		for _, r := range reports {
			if _, held := positions[r.Ticker]; held {
				scoped = append(scoped, r)
			}
		}
	}

	due := engine.FindDue(scoped, scanDay, s.offsets)
	s.logger.Info().
		Str("day", scanDay.Format("2006-01-02")).
		Int("reports", len(reports)).
		Int("in_portfolio", len(scoped)).
		Int("due", len(due)).
		Msg("schedule scanned")

	unsent, err := s.filterUnsent(ctx, due)
	if err != nil {
		return note, err
	}

	note.Alerts = buildAlerts(unsent, positions)
	return note, nil
}

// fetchPositions loads current holdings. With no source configured, or a
// failing one, it returns nil and the scan covers the whole schedule.
func (s *Service) fetchPositions(ctx context.Context) map[string]fetcher.Holding {
	if s.holdings == nil {
		return nil
	}
	positions, err := s.holdings.FetchHoldings(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("holdings unavailable, scanning the full schedule")
		return nil
	}
	return positions
}

// filterUnsent drops due alerts that already have a ledger record. With a
// single configured offset the ledger is keyed on AnyOffset, so the key does
// not change when the operator tunes the lead time.
func (s *Service) filterUnsent(ctx context.Context, due []engine.AlertDue) ([]engine.AlertDue, error) {
	if s.ledger == nil || len(due) == 0 {
		return due, nil
	}

	if len(s.offsets) <= 1 {
		unsent, err := s.ledger.FilterUnsent(ctx, due, ledger.AnyOffset)
		if err != nil {
			return nil, fmt.Errorf("filter sent alerts: %w", err)
		}
		return unsent, nil
	}

	unsent := make([]engine.AlertDue, 0, len(due))
	for _, d := range due {
		sent, err := s.ledger.HasBeenSent(ctx, d.Report.Ticker, d.Report.DateKey(), d.ThresholdOffset)
		if err != nil {
			return nil, fmt.Errorf("check sent alert: %w", err)
		}
		if sent {
			continue
		}
		unsent = append(unsent, d)
	}
	return unsent, nil
}

// buildAlerts shapes due alerts for delivery, attaching any known position.
func buildAlerts(due []engine.AlertDue, positions map[string]fetcher.Holding) []alerting.Alert {
	alerts := make([]alerting.Alert, 0, len(due))
	for _, d := range due {
		alert := alerting.Alert{
			Report:          d.Report,
			DaysUntilReport: d.DaysUntilReport,
			ThresholdOffset: d.ThresholdOffset,
		}
		if h, ok := positions[d.Report.Ticker]; ok {
			holding := h
			alert.Holding = &holding
		}
		alerts = append(alerts, alert)
	}
	return alerts
}

// cleanupLedger prunes records past the retention window. Failures are
// logged, not returned.
func (s *Service) cleanupLedger(ctx context.Context) {
	if s.ledger == nil || s.keepDays <= 0 {
		return
	}
	removed, err := s.ledger.CleanupOld(ctx, s.keepDays)
	if err != nil {
		s.logger.Warn().Err(err).Msg("ledger cleanup failed")
		return
	}
	if removed > 0 {
		s.logger.Info().
			Int("removed", removed).
			Int("keep_days", s.keepDays).
			Msg("pruned old ledger records")
	}
}

// ledgerKey maps a matched offset to its ledger key.
func (s *Service) ledgerKey(offset int) int {
	if len(s.offsets) <= 1 {
		return ledger.AnyOffset
	}
	return offset
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.lockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
