package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/winkshine/winkshine-admin/internal/dashboard"
)

// StatsWarmupJob recomputes the dashboard statistics cache so the first
// request after expiry does not pay for the count queries.
type StatsWarmupJob struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewStatsWarmupJob wires dependencies for the warmup handler.
func NewStatsWarmupJob(dashboardSvc *dashboard.Service, logger *slog.Logger) *StatsWarmupJob {
	return &StatsWarmupJob{
		Dashboard: dashboardSvc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskDashboardStatsWarmup tasks.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("stats warmup: handler not configured")
	}
	var payload StatsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("reason", payload.Reason))
	start := j.now()

	jobCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if err := j.Dashboard.WarmCache(jobCtx); err != nil {
		logger.Error("warm dashboard stats", slog.Any("error", err))
		return err
	}

	logger.Info("completed stats warmup", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *StatsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardStatsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardStatsWarmup))
}

func (j *StatsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
