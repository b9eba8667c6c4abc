package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/winkshine/winkshine-admin/internal/users"
)

// countRepo stubs the single repository call the stats service makes.
type countRepo struct {
	users    int
	calls    atomic.Int64
	failWith error
}

func (c *countRepo) CountByRole(ctx context.Context, role users.Role) (int, error) {
	c.calls.Add(1)
	if c.failWith != nil {
		return 0, c.failWith
	}
	if role != users.RoleUser {
		return 0, nil
	}
	return c.users, nil
}

func (c *countRepo) FindByID(ctx context.Context, id string) (*users.Account, error) {
	return nil, users.ErrNotFound
}

func (c *countRepo) FindByEmail(ctx context.Context, email string) (*users.Account, error) {
	return nil, users.ErrNotFound
}

func (c *countRepo) Insert(ctx context.Context, a *users.Account) (*users.Account, error) {
	return nil, errors.New("not supported")
}

func (c *countRepo) List(ctx context.Context, limit, offset int) ([]users.Account, error) {
	return nil, nil
}

func (c *countRepo) Count(ctx context.Context) (int, error) { return c.users, nil }

func (c *countRepo) UpdateStatus(ctx context.Context, id string, status users.Status) (*users.Account, error) {
	return nil, users.ErrNotFound
}

func (c *countRepo) UpdateRole(ctx context.Context, id string, role users.Role) (*users.Account, error) {
	return nil, users.ErrNotFound
}

func (c *countRepo) UpdateProfile(ctx context.Context, id, name, email string) (*users.Account, error) {
	return nil, users.ErrNotFound
}

func (c *countRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return users.ErrNotFound
}

func (c *countRepo) SoftDelete(ctx context.Context, id string) error { return users.ErrNotFound }

var _ users.Repository = (*countRepo)(nil)

func newCachedService(t *testing.T, repo *countRepo) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, client, time.Minute, nil), mr
}

func TestGetStatsComputesAndCaches(t *testing.T) {
	repo := &countRepo{users: 42}
	svc, mr := newCachedService(t, repo)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, stats.TotalUsers)
	require.EqualValues(t, 1, repo.calls.Load())

	cached, err := mr.Get(statsCacheKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"totalUsers":42}`, cached)
}

func TestGetStatsServesFromCache(t *testing.T) {
	repo := &countRepo{users: 42}
	svc, _ := newCachedService(t, repo)

	_, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	repo.users = 99
	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, stats.TotalUsers, "a warm cache skips the store")
	require.EqualValues(t, 1, repo.calls.Load())
}

func TestGetStatsRecomputesAfterExpiry(t *testing.T) {
	repo := &countRepo{users: 42}
	svc, mr := newCachedService(t, repo)

	_, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	repo.users = 99
	mr.FastForward(2 * time.Minute)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 99, stats.TotalUsers)
	require.EqualValues(t, 2, repo.calls.Load())
}

func TestGetStatsWithoutCache(t *testing.T) {
	repo := &countRepo{users: 7}
	svc := NewService(repo, nil, time.Minute, nil)

	for i := 0; i < 3; i++ {
		stats, err := svc.GetStats(context.Background())
		require.NoError(t, err)
		require.Equal(t, 7, stats.TotalUsers)
	}
	require.EqualValues(t, 3, repo.calls.Load(), "no cache means every call hits the store")
}

func TestGetStatsPropagatesStoreError(t *testing.T) {
	repo := &countRepo{failWith: errors.New("connection reset")}
	svc := NewService(repo, nil, time.Minute, nil)

	_, err := svc.GetStats(context.Background())
	require.Error(t, err)
}

func TestGetStatsSurvivesCacheOutage(t *testing.T) {
	repo := &countRepo{users: 42}
	svc, mr := newCachedService(t, repo)
	mr.Close()

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err, "a dead cache degrades to a direct count")
	require.Equal(t, 42, stats.TotalUsers)
}

func TestWarmCache(t *testing.T) {
	repo := &countRepo{users: 42}
	svc, mr := newCachedService(t, repo)

	require.NoError(t, svc.WarmCache(context.Background()))

	cached, err := mr.Get(statsCacheKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"totalUsers":42}`, cached)

	// Warmed values are served without touching the store again.
	repo.users = 99
	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, stats.TotalUsers)
	require.EqualValues(t, 1, repo.calls.Load())
}
