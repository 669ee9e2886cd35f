package repository

import (
	"context"
	"errors"
	"fmt"

	"acd-tierlist/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBackend keeps the encoded root under a single key.
type RedisBackend struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

func NewRedisBackend(client *redis.Client, key string, logger zerolog.Logger) *RedisBackend {
	return &RedisBackend{client: client, key: key, logger: logger}
}

func (r *RedisBackend) Load(ctx context.Context) (*domain.Root, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRootNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", r.key).Msg("failed to load root")
		return nil, fmt.Errorf("failed to load root: %w", err)
	}
	return decodeRoot(data)
}

func (r *RedisBackend) Save(ctx context.Context, root *domain.Root) error {
	data, err := encodeRoot(root)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", r.key).Msg("failed to save root")
		return fmt.Errorf("failed to save root: %w", err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
