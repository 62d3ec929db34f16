// Package cache wraps Redis in the same CacheService shape the teacher
// uses (Set/Get/Delete/Exists plus context-free *Simple wrappers), extended
// with the tenant-qualified key discipline spec §3.2/§4.5/§9 demands and a
// singleflight layer to collapse concurrent misses on the same key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	client *redis.Client
	group  singleflight.Group
}

func NewService(client *redis.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal value: %w", err)
	}
	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("cache: set key %s: %w", key, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("cache: key not found: %s", key)
		}
		return fmt.Errorf("cache: get key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cache: unmarshal value for key %s: %w", key, err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: delete keys %v: %w", keys, err)
	}
	return nil
}

func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache: exists check for key %s: %w", key, err)
	}
	return val > 0, nil
}

func (s *Service) SetSimple(key string, value interface{}, expiration time.Duration) error {
	return s.Set(context.Background(), key, value, expiration)
}

func (s *Service) GetSimple(key string, dest interface{}) error {
	return s.Get(context.Background(), key, dest)
}

func (s *Service) Flush(ctx context.Context) error {
	return s.client.FlushDB(ctx).Err()
}

// GetOrLoad fetches key from cache; on miss, calls load under a
// per-key singleflight group so concurrent misses on the same key only
// invoke load once (spec §5 "writers use single-flight per key to avoid
// thundering herds"), then caches the loaded value for ttl.
func GetOrLoad[T any](ctx context.Context, s *Service, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if err := s.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if setErr := s.Set(ctx, key, val, ttl); setErr != nil {
			logrus.WithError(setErr).WithField("key", key).Warn("cache: failed to store loaded value")
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
