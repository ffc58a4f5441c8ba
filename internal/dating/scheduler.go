package dating

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// passRetention is how long pass swipes are kept
const passRetention = 30 * 24 * time.Hour

// Scheduler runs background maintenance until its context ends
type Scheduler struct {
	repo    Repository
	metrics *MetricsCollector
	now     func() time.Time
}

func NewScheduler(repo Repository, metrics *MetricsCollector) *Scheduler {
	return &Scheduler{repo: repo, metrics: metrics, now: time.Now}
}

func (s *Scheduler) Start(ctx context.Context) {
	// Refresh database-backed gauges every hour
	go s.runEvery(ctx, time.Hour, "collect metrics", s.metrics.Collect)

	// Expire old passes daily at 3 AM
	go s.runDaily(ctx, 3, 0, "prune passes", s.PrunePasses)
}

// PrunePasses deletes pass swipes older than the retention window
func (s *Scheduler) PrunePasses(ctx context.Context) error {
	n, err := s.repo.PruneInteractions(ctx, ActionPass, s.now().Add(-passRetention))
	if err != nil {
		return err
	}
	zap.L().Info("pruned expired passes", zap.Int64("rows", n))
	return nil
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, name string, task func(context.Context) error) {
	for {
		now := s.now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			s.run(ctx, name, task)
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) runEvery(ctx context.Context, every time.Duration, name string, task func(context.Context) error) {
	s.run(ctx, name, task)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run(ctx, name, task)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, name string, task func(context.Context) error) {
	if err := task(ctx); err != nil && ctx.Err() == nil {
		zap.L().Error("scheduled task failed", zap.String("task", name), zap.Error(err))
	}
}
