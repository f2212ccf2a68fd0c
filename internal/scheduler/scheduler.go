package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// JobFunc runs one scheduled scan for the given day.
type JobFunc func(ctx context.Context, day time.Time) error

// Options tune scheduler behaviour.
type Options struct {
	Cron     string
	Timezone string
	// RunOnStart fires the job once immediately, before the first cron
	// firing. Useful when the service comes up after the scheduled hour.
	RunOnStart bool
}

// Scheduler triggers the daily scan on a cron cadence in the market's
// timezone, so "today" stays correct on both sides of UTC midnight.
type Scheduler struct {
	opts     Options
	location *time.Location
	logger   zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) (*Scheduler, error) {
	location := time.Local
	if opts.Timezone != "" {
		loc, err := time.LoadLocation(opts.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load scheduler timezone %q: %w", opts.Timezone, err)
		}
		location = loc
	}

	return &Scheduler{
		opts:     opts,
		location: location,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Location returns the scheduler's working timezone.
func (s *Scheduler) Location() *time.Location {
	return s.location
}

// Run blocks, invoking job at every cron firing until ctx is cancelled. Job
// failures are logged, not returned; the schedule keeps running.
func (s *Scheduler) Run(ctx context.Context, job JobFunc) error {
	runner := cron.New(cron.WithLocation(s.location))

	execute := func() {
		day := time.Now().In(s.location)
		s.logger.Info().Str("day", day.Format("2006-01-02")).Msg("executing scheduled scan")
		if err := job(ctx, day); err != nil {
			s.logger.Error().Err(err).Str("day", day.Format("2006-01-02")).Msg("scheduled scan failed")
		}
	}

	if _, err := runner.AddFunc(s.opts.Cron, execute); err != nil {
		return fmt.Errorf("parse cron spec %q: %w", s.opts.Cron, err)
	}

	if s.opts.RunOnStart {
		execute()
	}

	runner.Start()
	if entries := runner.Entries(); len(entries) > 0 {
		s.logger.Info().
			Str("cron", s.opts.Cron).
			Str("timezone", s.location.String()).
			Time("next_run", entries[0].Next).
			Msg("scheduler started")
	}

	<-ctx.Done()

	stopCtx := runner.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("scan still running at shutdown, abandoning wait")
	}
	return ctx.Err()
}
