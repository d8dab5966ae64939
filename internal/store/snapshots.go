package store

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// SnapshotStore persists last-known-good collection snapshots between runs
// so the console can show data before its first fetch completes. All
// operations are best-effort; failures never block or fail a read.
type SnapshotStore interface {
	Load(resource, signature string) ([]byte, bool)
	Save(resource, signature string, data []byte)
	Close() error
}

// snapshotTTL bounds how long a persisted snapshot stays interesting; a
// console restarted days later should start cold.
const snapshotTTL = 24 * time.Hour

// NewSnapshotStore returns a redis-backed store, or the null store when
// redisURL is empty or the server is unreachable.
func NewSnapshotStore(redisURL string, logger *log.Logger) SnapshotStore {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if redisURL == "" {
		return NewNullSnapshots(logger)
	}

	if rs, err := NewRedisSnapshots(redisURL, logger); err == nil {
		return rs
	} else {
		logger.Printf("snapshot store unavailable, starting cold: %v", err)
	}

	return NewNullSnapshots(logger)
}

// RedisSnapshots persists snapshots in redis under a fixed key prefix.
type RedisSnapshots struct {
	client *redis.Client
	prefix string
	logger *log.Logger
}

// NewRedisSnapshots connects to redis and verifies the connection.
func NewRedisSnapshots(redisURL string, logger *log.Logger) (*RedisSnapshots, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisSnapshots{client: c, prefix: "triage:snapshot:", logger: logger}, nil
}

func (rs *RedisSnapshots) key(resource, signature string) string {
	return rs.prefix + resource + ":" + signature
}

// Load returns the persisted snapshot for a cache key, if any.
func (rs *RedisSnapshots) Load(resource, signature string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	raw, err := rs.client.Get(ctx, rs.key(resource, signature)).Bytes()
	if err != nil {
		if err != redis.Nil {
			rs.logger.Printf("snapshot load error for %s: %v", signature, err)
		}
		return nil, false
	}
	return raw, true
}

// Save writes through the latest snapshot for a cache key.
func (rs *RedisSnapshots) Save(resource, signature string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rs.client.Set(ctx, rs.key(resource, signature), data, snapshotTTL).Err(); err != nil {
		rs.logger.Printf("snapshot save error for %s: %v", signature, err)
	}
}

// Close closes the redis connection.
func (rs *RedisSnapshots) Close() error {
	return rs.client.Close()
}

// NullSnapshots is the no-op store used when redis is not configured.
type NullSnapshots struct {
	logger *log.Logger
}

// NewNullSnapshots creates the no-op store.
func NewNullSnapshots(logger *log.Logger) *NullSnapshots {
	return &NullSnapshots{logger: logger}
}

// Load always misses.
func (ns *NullSnapshots) Load(resource, signature string) ([]byte, bool) { return nil, false }

// Save discards the snapshot.
func (ns *NullSnapshots) Save(resource, signature string, data []byte) {}

// Close is a no-op.
func (ns *NullSnapshots) Close() error { return nil }
