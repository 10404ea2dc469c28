// Package cache provides a small redis-backed read cache used for the
// program configuration snapshot and affiliate dashboard reads. The
// commission and payout write paths never depend on it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Config holds redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewClient creates a redis client from config.
func NewClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Service wraps a redis client with JSON marshaling and a default TTL.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService creates a cache service with the given default TTL.
func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{client: client, ttl: defaultTTL}
}

// GetJSON loads a key into dest; ErrCacheMiss when absent.
func (s *Service) GetJSON(ctx context.Context, key string, dest interface{}) error {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return json.Unmarshal([]byte(val), dest)
}

// SetJSON stores value under key with the default TTL.
func (s *Service) SetJSON(ctx context.Context, key string, value interface{}) error {
	return s.SetJSONWithTTL(ctx, key, value, s.ttl)
}

// SetJSONWithTTL stores value under key with an explicit TTL.
func (s *Service) SetJSONWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys.
func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// HealthCheck pings redis.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}

// DashboardKey is the cache key for an affiliate user's dashboard
// payload.
func DashboardKey(userID uint) string {
	return fmt.Sprintf("affiliate:dashboard:%d", userID)
}

// ProgramConfigKey is the cache key for the program config snapshot.
const ProgramConfigKey = "program:config"
