package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fincue/sessionkit/token"
)

const defaultRedisKey = "sessionkit:tokens"

// Redis defines a public type used by sessionkit APIs.
//
// Redis persists the pair as a JSON document under a single key. It suits
// deployments where several workers share one session, such as a fleet of
// schedulers calling the backend as a service account.
type Redis struct {
	client *redis.Client
	key    string
}

// RedisOption defines a public type used by sessionkit APIs.
type RedisOption func(*Redis)

// WithRedisKey overrides the key the pair is stored under.
//
// WithRedisKey does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func WithRedisKey(key string) RedisOption {
	return func(r *Redis) {
		r.key = key
	}
}

// NewRedis returns a redis-backed storage using the provided client.
//
// NewRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		key:    defaultRedisKey,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Load returns the persisted pair, or (nil, nil) when the key is absent.
//
// Load may return an error when input validation, dependency calls, or security checks fail.
// Load does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Load(ctx context.Context) (*token.Pair, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load tokens: %w", err)
	}

	var pair token.Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}

	return &pair, nil
}

// Save persists the pair, replacing any previous one.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Save(ctx context.Context, pair token.Pair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}

	return nil
}

// Clear removes the persisted pair.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}

	return nil
}
