package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	down bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestCachedServiceReadsThrough(t *testing.T) {
	ctx := context.Background()
	inner, repo := newTestService(t)
	rdb := newFakeRedis()
	cached := newCachedService(inner, rdb, time.Minute, logging.Discard())

	c, err := cached.Create(ctx, CreateRequest{Name: "Painting"})
	require.NoError(t, err)

	_, err = cached.Resolve(ctx, c.ID)
	require.NoError(t, err)
	_, err = cached.Resolve(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.gets, "second resolve is served from cache")
	assert.Contains(t, rdb.data, cacheKeyPrefix+c.ID)

	inactive := false
	_, err = cached.Update(ctx, c.ID, UpdateRequest{Active: &inactive})
	require.NoError(t, err)
	assert.NotContains(t, rdb.data, cacheKeyPrefix+c.ID)

	_, err = cached.Resolve(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedServiceSurvivesRedisOutage(t *testing.T) {
	ctx := context.Background()
	inner, _ := newTestService(t)
	rdb := newFakeRedis()
	rdb.down = true
	cached := newCachedService(inner, rdb, time.Minute, logging.Discard())

	c, err := inner.Create(ctx, CreateRequest{Name: "Gardening"})
	require.NoError(t, err)

	got, err := cached.Resolve(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gardening", got.Name)
}
