package scheduler

import (
	"context"
	"fmt"
	"nextGamePoints/pkg/logger"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Purger is anything that can drop expired state.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

type Scheduler struct {
	s        gocron.Scheduler
	purger   Purger
	interval time.Duration
}

func NewScheduler(purger Purger, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		interval = time.Minute
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:        s,
		purger:   purger,
		interval: interval,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.purgeSessions),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create session gc job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) purgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	removed, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		logger.Error("Failed to purge expired sessions", err)
		return
	}
	if removed > 0 {
		logger.Info("Purged expired sessions", "removed", removed)
	}
}
