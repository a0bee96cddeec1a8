package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCacheRepo struct{ memoryCacheRepo }

func (f *failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection reset")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out []int
	hit, err := svc.Get(ctx, UserKey("u1", "trend"), &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, UserKey("u1", "trend"), []int{1, 2}, 0))
	require.NoError(t, svc.Set(ctx, UserKey("u2", "trend"), []int{3}, 0))
	hit, err = svc.Get(ctx, UserKey("u1", "trend"), &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []int{1, 2}, out)

	require.NoError(t, svc.InvalidateUser(ctx, "u1"))
	assert.Equal(t, []string{"gpa:u1:*"}, repo.invalidated)
	assert.NotContains(t, repo.values, "gpa:u1:trend")
	assert.Contains(t, repo.values, "gpa:u2:trend")
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", 1, 0))
	assert.Empty(t, repo.values)
	hit, err := svc.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.NoError(t, nilSvc.InvalidateUser(ctx, "u1"))
}

func TestCacheServiceReportsBackendErrors(t *testing.T) {
	repo := &failingCacheRepo{memoryCacheRepo: *newMemoryCacheRepo()}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	hit, err := svc.Get(context.Background(), "k", new(int))
	assert.Error(t, err)
	assert.False(t, hit)
}
