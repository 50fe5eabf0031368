package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/taihub/taihub/internal/jobs"
	"github.com/taihub/taihub/internal/stats"
)

// StatsWarmupJob pre-populates the public counters cache.
type StatsWarmupJob struct {
	Stats   *stats.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskStatsWarmup tasks.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Stats == nil {
		return errors.New("stats warmup: handler not configured")
	}

	tracker := j.metrics().Track(TaskStatsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	if err := j.Stats.Warm(warmCtx); err != nil {
		resultErr = err
		j.logger().Error("warm stats cache", slog.Any("error", err))
		return resultErr
	}
	j.logger().Info("warmed stats cache", slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *StatsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *StatsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStatsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskStatsWarmup))
}
