package stats

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	snap  Snapshot
	calls int
}

func (s *stubRepo) Counts(ctx context.Context) (Snapshot, error) {
	s.calls++
	return s.snap, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &stubRepo{snap: Snapshot{Words: 42, Books: 7, Photos: 3, Songs: 5, Videos: 2}}
	return NewService(repo, NewCache(client, time.Minute)), repo
}

func TestSnapshotCachesUntilBump(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), first.Words)
	assert.Equal(t, 1, repo.calls)

	// Second read comes from the cache.
	repo.snap.Words = 43
	second, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), second.Words)
	assert.Equal(t, 1, repo.calls)

	// Bump invalidates.
	require.NoError(t, svc.Invalidate(ctx))
	third, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(43), third.Words)
	assert.Equal(t, 2, repo.calls)
}

func TestWarmPopulatesCache(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx))
	_, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestNilCachePassesThrough(t *testing.T) {
	repo := &stubRepo{snap: Snapshot{Words: 1}}
	svc := NewService(repo, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Words)

	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
