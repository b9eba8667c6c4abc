package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/winkshine/winkshine-admin/internal/users"
)

const statsCacheKey = "dashboard:stats"

// Stats is the dashboard statistics payload. Counts are live queries
// against the account store, never mocked.
type Stats struct {
	TotalUsers int `json:"totalUsers"`
}

// Service computes dashboard statistics with a short-lived Redis cache.
// Concurrent cache misses are collapsed into a single store query.
type Service struct {
	repo   users.Repository
	cache  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewService builds a Service. cache may be nil; stats then always hit
// the store.
func NewService(repo users.Repository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// GetStats returns the cached statistics, computing and caching them on a
// miss. Cache failures degrade to a direct count; stats are not part of
// the security boundary.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	result, err, _ := s.group.Do(statsCacheKey, func() (any, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return Stats{}, err
	}
	return result.(Stats), nil
}

// WarmCache recomputes the statistics and stores them, regardless of any
// cached value. The warmup job calls this on a schedule.
func (s *Service) WarmCache(ctx context.Context) error {
	_, err := s.compute(ctx)
	return err
}

func (s *Service) compute(ctx context.Context) (Stats, error) {
	total, err := s.repo.CountByRole(ctx, users.RoleUser)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{TotalUsers: total}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *Service) fromCache(ctx context.Context) (Stats, bool) {
	if s.cache == nil {
		return Stats{}, false
	}
	payload, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dashboard cache get", slog.Any("error", err))
		}
		return Stats{}, false
	}
	var stats Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return Stats{}, false
	}
	return stats, true
}

func (s *Service) toCache(ctx context.Context, stats Stats) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("dashboard cache set", slog.Any("error", err))
	}
}
