package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "github.com/vnykmshr/chronoflow/pkg/common/errors"
)

// RedisConfig holds configuration for the Redis backend.
type RedisConfig struct {
	// Redis is the client to use. Required.
	Redis redis.UniversalClient

	// Key is the Redis key holding the spec hash. Defaults to
	// "chronoflow:specs".
	Key string

	// Timeout bounds each Redis operation. Defaults to 500ms.
	Timeout time.Duration

	// KeyTTL refreshes the hash's expiry on every write. Zero means
	// the hash never expires.
	KeyTTL time.Duration
}

// RedisBackend stores specs as JSON fields of a single Redis hash, so
// task definitions survive process restarts and can be shared by
// multiple nodes.
type RedisBackend struct {
	client  redis.UniversalClient
	key     string
	timeout time.Duration
	keyTTL  time.Duration
}

// NewRedisBackend creates a Redis-backed spec store.
func NewRedisBackend(cfg RedisConfig) (*RedisBackend, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	key := cfg.Key
	if key == "" {
		key = "chronoflow:specs"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &RedisBackend{
		client:  cfg.Redis,
		key:     key,
		timeout: timeout,
		keyTTL:  cfg.KeyTTL,
	}, nil
}

// Save implements Backend.
func (b *RedisBackend) Save(ctx context.Context, spec Spec) error {
	if spec.ID == "" {
		return fmt.Errorf("spec ID cannot be empty")
	}
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal spec %s: %w", spec.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	pipe := b.client.TxPipeline()
	pipe.HSet(ctx, b.key, spec.ID, payload)
	if b.keyTTL > 0 {
		pipe.Expire(ctx, b.key, b.keyTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save spec %s: %w", spec.ID, err)
	}
	return nil
}

// Load implements Backend.
func (b *RedisBackend) Load(ctx context.Context, id string) (Spec, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	payload, err := b.client.HGet(ctx, b.key, id).Result()
	if err == redis.Nil {
		return Spec{}, fmt.Errorf("spec %s: %w", id, commonerrors.ErrNotFound)
	}
	if err != nil {
		return Spec{}, fmt.Errorf("load spec %s: %w", id, err)
	}

	var spec Spec
	if err := json.Unmarshal([]byte(payload), &spec); err != nil {
		return Spec{}, fmt.Errorf("unmarshal spec %s: %w", id, err)
	}
	return spec, nil
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.client.HDel(ctx, b.key, id).Err(); err != nil {
		return fmt.Errorf("delete spec %s: %w", id, err)
	}
	return nil
}

// List implements Backend.
func (b *RedisBackend) List(ctx context.Context) ([]Spec, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	fields, err := b.client.HGetAll(ctx, b.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list specs: %w", err)
	}

	specs := make([]Spec, 0, len(fields))
	for id, payload := range fields {
		var spec Spec
		if err := json.Unmarshal([]byte(payload), &spec); err != nil {
			return nil, fmt.Errorf("unmarshal spec %s: %w", id, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Close implements Backend.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
