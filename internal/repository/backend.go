package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/database"
	"acd-tierlist/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrRootNotFound = errors.New("collection root not found")
	ErrCorruptRoot  = errors.New("collection root is corrupt")
)

// Backend persists the whole collection root. Implementations never keep
// references to the roots passed to or returned from them.
type Backend interface {
	Load(ctx context.Context) (*domain.Root, error)
	Save(ctx context.Context, root *domain.Root) error
	Close() error
}

func New(cfg *config.Config, logger zerolog.Logger) (Backend, error) {
	logger = logger.With().Str("component", "backend").Str("backend", cfg.StoreBackend).Logger()

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	case config.BackendFile:
		return NewFileBackend(cfg.DataFile, logger), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return NewRedisBackend(client, cfg.RootKey, logger), nil
	case config.BackendSQLite:
		db, err := database.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLiteBackend(db, cfg.RootKey, logger), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func encodeRoot(root *domain.Root) ([]byte, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode root: %w", err)
	}
	return data, nil
}

func decodeRoot(data []byte) (*domain.Root, error) {
	var root domain.Root
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRoot, err)
	}
	if root.Players == nil {
		root.Players = []domain.Player{}
	}
	return &root, nil
}
