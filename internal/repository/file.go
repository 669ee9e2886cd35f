package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"acd-tierlist/internal/domain"

	"github.com/rs/zerolog"
)

// FileBackend stores the root as a JSON document. Saves replace the file
// with a rename so readers see either the old or the new root.
type FileBackend struct {
	path   string
	logger zerolog.Logger
}

func NewFileBackend(path string, logger zerolog.Logger) *FileBackend {
	return &FileBackend{path: path, logger: logger}
}

func (b *FileBackend) Load(ctx context.Context) (*domain.Root, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRootNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	return decodeRoot(data)
}

func (b *FileBackend) Save(ctx context.Context, root *domain.Root) error {
	data, err := encodeRoot(root)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.path, err)
	}

	b.logger.Debug().Str("path", b.path).Int("bytes", len(data)).Msg("root written")
	return nil
}

func (b *FileBackend) Close() error { return nil }
