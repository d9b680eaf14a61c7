package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "catalog:category:"

// cacheClient is the subset of *redis.Client the cache needs.
type cacheClient interface {
	Get(key string) *redis.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(keys ...string) *redis.IntCmd
}

// cachedService serves Resolve and Get from redis and evicts entries on writes.
// A cache outage degrades to reading through to the inner service.
type cachedService struct {
	Service
	client cacheClient
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewCachedService wraps inner with a redis read-through cache for single categories.
func NewCachedService(inner Service, client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) Service {
	return newCachedService(inner, client, ttl, logger)
}

func newCachedService(inner Service, client cacheClient, ttl time.Duration, logger logrus.FieldLogger) *cachedService {
	return &cachedService{
		Service: inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *cachedService) Get(ctx context.Context, id string) (*Category, error) {
	key := cacheKeyPrefix + id

	raw, err := s.client.Get(key).Result()
	switch {
	case err == nil:
		var c Category
		if jsonErr := json.Unmarshal([]byte(raw), &c); jsonErr == nil {
			return &c, nil
		}
		s.logger.WithField("key", key).Warn("dropping undecodable catalog cache entry")
	case !errors.Is(err, redis.Nil):
		s.logger.WithError(err).WithField("key", key).Warn("catalog cache read failed")
	}

	c, err := s.Service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(c); jsonErr == nil {
		if setErr := s.client.Set(key, data, s.ttl).Err(); setErr != nil {
			s.logger.WithError(setErr).WithField("key", key).Warn("catalog cache write failed")
		}
	}
	return c, nil
}

func (s *cachedService) Resolve(ctx context.Context, id string) (*Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *cachedService) Update(ctx context.Context, id string, req UpdateRequest) (*Category, error) {
	c, err := s.Service.Update(ctx, id, req)
	s.evict(id)
	return c, err
}

func (s *cachedService) SetIcon(ctx context.Context, id string, content []byte) (*Category, error) {
	c, err := s.Service.SetIcon(ctx, id, content)
	s.evict(id)
	return c, err
}

func (s *cachedService) evict(id string) {
	if err := s.client.Del(cacheKeyPrefix + id).Err(); err != nil {
		s.logger.WithError(err).WithField("category_id", id).Warn("catalog cache evict failed")
	}
}
