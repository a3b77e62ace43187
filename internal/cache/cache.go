// Package cache stores single-text detection results in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crimson-sun/langdetect/internal/config"
	"github.com/crimson-sun/langdetect/internal/model"
)

const keyPrefix = "langdetect:detect:"

// Cache is a Redis-backed detection result cache. Keys are scoped to the
// label vocabulary, so results written under another vocabulary are never
// served.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New connects to Redis and verifies the connection with PING. labels is
// the detector's vocabulary in model order.
func New(ctx context.Context, cfg config.CacheConfig, labels []string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return newWithClient(client, cfg.TTL, labels), nil
}

func newWithClient(client *redis.Client, ttl time.Duration, labels []string) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		prefix: keyPrefix + Fingerprint(labels) + ":",
	}
}

// Fingerprint identifies a label vocabulary: the first 16 hex digits of the
// SHA-256 of the labels joined by newlines. Order matters since score
// columns follow it.
func Fingerprint(labels []string) string {
	sum := sha256.Sum256([]byte(strings.Join(labels, "\n")))
	return hex.EncodeToString(sum[:8])
}

// Key returns the Redis key for text.
func (c *Cache) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Get returns the cached result for text. A miss is reported as ok=false
// with a nil error.
func (c *Cache) Get(ctx context.Context, text string) (model.DetectionResult, bool, error) {
	raw, err := c.client.Get(ctx, c.Key(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.DetectionResult{}, false, nil
	}
	if err != nil {
		return model.DetectionResult{}, false, fmt.Errorf("cache: get: %w", err)
	}

	var res model.DetectionResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return model.DetectionResult{}, false, fmt.Errorf("cache: decode: %w", err)
	}
	return res, true, nil
}

// Set stores res for text with the configured TTL.
func (c *Cache) Set(ctx context.Context, text string, res model.DetectionResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(text), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
