package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// QueryPruner deletes query log entries older than a cutoff.
type QueryPruner interface {
	PruneQueries(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler manages the maintenance cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Pruner    QueryPruner
	Retention time.Duration
	Ctx       context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler. Expressions include a seconds field.
func NewScheduler(ctx context.Context, p QueryPruner, retention time.Duration) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Pruner:    p,
		Retention: retention,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the query log retention task. With a zero retention
// nothing is registered.
func (s *Scheduler) RegisterAll(pruneCron string) error {
	if s.Retention <= 0 {
		log.Info().Msg("query log retention disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
		return fmt.Errorf("register prune task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// PruneNow removes query log entries older than the retention window.
func (s *Scheduler) PruneNow(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.Retention)
	n, err := s.Pruner.PruneQueries(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune queries before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return n, nil
}

func (s *Scheduler) pruneTask() {
	n, err := s.PruneNow(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("query log retention")
		return
	}
	log.Info().Int64("removed", n).Dur("retention", s.Retention).Msg("query log pruned")
}
