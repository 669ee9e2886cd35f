package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"acd-tierlist/internal/domain"

	"github.com/rs/zerolog"
)

// SQLiteBackend keeps the root as one JSON document row in tierlist_roots.
type SQLiteBackend struct {
	db     *sql.DB
	key    string
	logger zerolog.Logger
}

func NewSQLiteBackend(sqlDB *sql.DB, key string, logger zerolog.Logger) *SQLiteBackend {
	return &SQLiteBackend{
		db:     sqlDB,
		key:    key,
		logger: logger,
	}
}

func (r *SQLiteBackend) Load(ctx context.Context) (*domain.Root, error) {
	var document string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM tierlist_roots WHERE key = ?`, r.key,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("key", r.key).Msg("root not found")
		return nil, ErrRootNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", r.key).Msg("failed to load root")
		return nil, fmt.Errorf("failed to load root: %w", err)
	}
	return decodeRoot([]byte(document))
}

func (r *SQLiteBackend) Save(ctx context.Context, root *domain.Root) error {
	data, err := encodeRoot(root)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tierlist_roots (key, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		r.key, string(data), time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error().Err(err).Str("key", r.key).Msg("failed to save root")
		return fmt.Errorf("failed to save root: %w", err)
	}

	return tx.Commit()
}

func (r *SQLiteBackend) Close() error {
	return r.db.Close()
}
