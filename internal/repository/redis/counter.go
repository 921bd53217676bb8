package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/admissions-server/internal/model"
)

var _ model.CounterStore = (*CounterRepository)(nil)

var errValueChanged = errors.New("counter value changed")

// CounterRepository implements compare-and-swap counters with WATCH/MULTI/EXEC.
type CounterRepository struct {
	client *redis.Client
}

// NewClient parses url, connects and pings the server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewCounterRepository(client *redis.Client) *CounterRepository {
	return &CounterRepository{
		client: client,
	}
}

func (r *CounterRepository) Load(ctx context.Context, key model.CounterKey) (int64, error) {
	value, err := r.client.Get(ctx, redisKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load counter %s: %w", key.Path(), err)
	}
	return value, nil
}

// CompareAndSwap reports false when the value differs from current or when
// another client touched the key between WATCH and EXEC.
func (r *CounterRepository) CompareAndSwap(ctx context.Context, key model.CounterKey, current, next int64) (bool, error) {
	k := redisKey(key)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		value, err := tx.Get(ctx, k).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if value != current {
			return errValueChanged
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}, k)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, errValueChanged):
		return false, nil
	default:
		return false, fmt.Errorf("failed to swap counter %s: %w", key.Path(), err)
	}
}

// Ping checks the connection for readiness probes.
func (r *CounterRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func redisKey(key model.CounterKey) string {
	return fmt.Sprintf("counters:%s:%s", key.Namespace, key.Scope)
}
