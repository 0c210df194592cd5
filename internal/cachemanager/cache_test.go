package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type lineKey string

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key lineKey) (string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1)
}

func (m *mockCache) GetWithRefresh(ctx context.Context, key lineKey, ttl time.Duration) (string, bool) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1)
}

func (m *mockCache) Set(ctx context.Context, key lineKey, value string, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCache) Delete(ctx context.Context, keys ...lineKey) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) Len() int {
	return m.Called().Int(0)
}

func TestInMemoryCacheManager_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[lineKey, string]("test", DefaultExpiration, DefaultCleanupInterval)

	_, ok := c.Get(ctx, "say 1")
	require.False(t, ok)

	c.Set(ctx, "say 1", "<styled>", time.Minute)
	got, ok := c.Get(ctx, "say 1")
	require.True(t, ok)
	require.Equal(t, "<styled>", got)
	require.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "say 1"))
	_, ok = c.Get(ctx, "say 1")
	require.False(t, ok)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[lineKey, string]("test", DefaultExpiration, DefaultCleanupInterval)

	c.Set(ctx, "k", "v", time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCacheManager[lineKey, int]("test", DefaultExpiration, DefaultCleanupInterval)
	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "b", 2, time.Minute)

	require.NoError(t, c.Flush(ctx))
	require.Zero(t, c.Len())
}

func TestReadThroughCache_HitSkipsFn(t *testing.T) {
	ctx := context.Background()
	m := &mockCache{}
	m.On("GetWithRefresh", ctx, lineKey("x = 1"), time.Minute).Return("cached", true).Once()

	calls := 0
	rt := NewReadThroughCache[lineKey, string, string](m, func(_ context.Context, in string) (string, error) {
		calls++
		return in, nil
	}, false)

	got, err := rt.Get(ctx, "x = 1", "x = 1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got)
	require.Zero(t, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_MissStoresValue(t *testing.T) {
	ctx := context.Background()
	m := &mockCache{}
	m.On("GetWithRefresh", ctx, lineKey("k"), time.Minute).Return("", false).Once()
	m.On("Set", ctx, lineKey("k"), "computed:in", time.Minute).Once()

	rt := NewReadThroughCache[lineKey, string, string](m, func(_ context.Context, in string) (string, error) {
		return "computed:" + in, nil
	}, false)

	got, err := rt.Get(ctx, "k", "in", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "computed:in", got)
	m.AssertExpectations(t)
}

func TestReadThroughCache_ErrorNotStored(t *testing.T) {
	ctx := context.Background()
	m := &mockCache{}
	m.On("GetWithRefresh", ctx, lineKey("k"), time.Minute).Return("", false).Once()

	rt := NewReadThroughCache[lineKey, string, string](m, func(context.Context, string) (string, error) {
		return "", errors.New("boom")
	}, false)

	_, err := rt.Get(ctx, "k", "in", time.Minute)
	require.EqualError(t, err, "boom")
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	m := &mockCache{}
	rt := NewReadThroughCache[lineKey, string, string](m, func(_ context.Context, in string) (string, error) {
		return in + "!", nil
	}, true)

	got, err := rt.Get(context.Background(), "k", "hey", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "hey!", got)
	m.AssertExpectations(t)
	require.Same(t, m, rt.Cache())
}
