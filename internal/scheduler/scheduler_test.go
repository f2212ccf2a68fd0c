package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewRejectsUnknownTimezone(t *testing.T) {
	_, err := New(Options{Cron: "30 7 * * 1-5", Timezone: "Mars/Olympus"}, zerolog.Nop())
	if err == nil {
		t.Fatal("New() accepted an unknown timezone")
	}
}

func TestRunRejectsBadCronSpec(t *testing.T) {
	sched, err := New(Options{Cron: "not a cron spec", Timezone: "UTC"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	err = sched.Run(context.Background(), func(ctx context.Context, day time.Time) error { return nil })
	if err == nil {
		t.Fatal("Run() accepted an invalid cron spec")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	sched, err := New(Options{Cron: "30 7 * * 1-5", Timezone: "UTC"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sched.Run(ctx, func(ctx context.Context, day time.Time) error { return nil })
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after context cancel")
	}
}

func TestRunOnStartFiresImmediately(t *testing.T) {
	sched, err := New(Options{Cron: "30 7 * * 1-5", Timezone: "UTC", RunOnStart: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	fired := make(chan time.Time, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sched.Run(ctx, func(ctx context.Context, day time.Time) error {
			fired <- day
			return nil
		})
	}()

	select {
	case day := <-fired:
		if day.IsZero() {
			t.Error("startup scan received a zero day")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("startup scan never fired")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after context cancel")
	}
}
