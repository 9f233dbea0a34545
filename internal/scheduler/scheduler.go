// Package scheduler runs the daily achievement sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"wordfriend/internal/service"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Sweeper evaluates achievements for every active user
type Sweeper interface {
	CheckAllUsers(ctx context.Context) (service.SweepResult, error)
}

// Scheduler triggers the sweep once a day
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	at        string
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a scheduler that sweeps daily at the given HH:MM in loc
func New(sweeper Sweeper, at string, loc *time.Location, timeout time.Duration, logger *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		sweeper:   sweeper,
		at:        at,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start registers the sweep job and begins running it in the background
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.at).Do(s.RunSweep); err != nil {
		return fmt.Errorf("schedule achievement sweep: %w", err)
	}
	s.scheduler.StartAsync()

	s.logger.Info("Achievement sweep scheduled", zap.String("at", s.at))
	return nil
}

// Stop terminates scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunSweep runs one sweep with a bounded deadline
func (s *Scheduler) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.sweeper.CheckAllUsers(ctx)
	if err != nil {
		s.logger.Error("Achievement sweep failed",
			zap.Int("users", result.Users),
			zap.Error(err),
		)
		return
	}
	if result.Failed > 0 {
		s.logger.Warn("Achievement sweep finished with failures",
			zap.Int("failed", result.Failed),
			zap.Int("users", result.Users),
		)
	}
}
