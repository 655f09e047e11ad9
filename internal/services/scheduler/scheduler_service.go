// Package scheduler keeps the process alive and regenerates a fixed
// watchlist of tickers on a cron schedule. A refresh cycle that is
// still running when the next tick fires is not overlapped; the tick
// is skipped and logged.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/services/pipeline"
)

// Runner generates reports for a batch of tickers.
type Runner interface {
	RunAll(ctx context.Context, tickers []string) []pipeline.TickerRun
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Running   bool       `json:"running"`
	Schedule  string     `json:"schedule"`
	Tickers   []string   `json:"tickers"`
	Cycles    int        `json:"cycles"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Service drives scheduled watchlist refreshes through a report runner.
type Service struct {
	runner  Runner
	tickers []string
	cron    *cron.Cron
	logger  arbor.ILogger

	mu           sync.Mutex // protects the state below
	running      bool
	isProcessing bool
	schedule     string
	entryID      cron.EntryID
	cycles       int
	lastRun      *time.Time
	lastError    string

	runCtx context.Context
	cancel context.CancelFunc
}

// NewService creates a scheduler for the given watchlist tickers.
func NewService(runner Runner, tickers []string, logger arbor.ILogger) *Service {
	return &Service{
		runner:  runner,
		tickers: tickers,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start begins the scheduler with the given cron expression. An empty
// expression falls back to a daily 06:00 refresh.
func (s *Service) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if len(s.tickers) == 0 {
		return fmt.Errorf("no tickers to schedule")
	}

	if schedule == "" {
		schedule = "0 6 * * *"
	}
	if err := common.ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	entryID, err := s.cron.AddFunc(schedule, s.refresh)
	if err != nil {
		return fmt.Errorf("failed to add cron entry: %w", err)
	}

	s.runCtx, s.cancel = context.WithCancel(context.Background())
	s.entryID = entryID
	s.schedule = schedule
	s.cron.Start()
	s.running = true

	next := s.cron.Entry(entryID).Next
	s.logger.Info().
		Str("schedule", schedule).
		Strs("tickers", s.tickers).
		Str("next_run", next.Format(time.RFC3339)).
		Msg("Scheduler started")

	return nil
}

// Stop halts the scheduler, cancels an in-flight refresh, and waits up
// to 30 seconds for it to wind down.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	entryID := s.entryID
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	s.cron.Remove(entryID)
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info().Msg("Scheduler stopped")
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Scheduler stop timed out waiting for running refresh")
	}

	return nil
}

// IsRunning returns true if the scheduler is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TriggerNow runs a refresh cycle immediately without waiting for the
// next scheduled tick.
func (s *Service) TriggerNow() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is not running")
	}
	if s.isProcessing {
		s.mu.Unlock()
		return fmt.Errorf("refresh already in progress")
	}
	s.mu.Unlock()

	s.logger.Info().Msg("Manual refresh triggered")
	go s.refresh()

	return nil
}

// Status returns a snapshot of the scheduler state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		Running:   s.running,
		Schedule:  s.schedule,
		Tickers:   append([]string(nil), s.tickers...),
		Cycles:    s.cycles,
		LastRun:   s.lastRun,
		LastError: s.lastError,
	}

	if s.running {
		if next := s.cron.Entry(s.entryID).Next; !next.IsZero() {
			status.NextRun = &next
		}
	}

	return status
}

// refresh runs one watchlist regeneration cycle with panic recovery and
// an overlap guard.
func (s *Service) refresh() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in scheduled refresh")

			s.mu.Lock()
			s.isProcessing = false
			s.lastError = fmt.Sprintf("panic: %v", r)
			s.mu.Unlock()
		}
	}()

	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous refresh still running, skipping this cycle")
		return
	}
	s.isProcessing = true
	ctx := s.runCtx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	started := time.Now()
	s.logger.Info().
		Strs("tickers", s.tickers).
		Msg("Scheduled refresh started")

	runs := s.runner.RunAll(ctx, s.tickers)
	failed := pipeline.FailedCount(runs)

	completed := time.Now()
	s.mu.Lock()
	s.cycles++
	s.lastRun = &completed
	if failed > 0 {
		s.lastError = fmt.Sprintf("%d of %d tickers failed", failed, len(runs))
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if failed > 0 {
		s.logger.Error().
			Int("failed", failed).
			Int("total", len(runs)).
			Dur("duration", time.Since(started)).
			Msg("Scheduled refresh completed with failures")
		return
	}

	s.logger.Info().
		Int("reports", len(runs)).
		Dur("duration", time.Since(started)).
		Msg("Scheduled refresh completed")
}
