package repository

import (
	"context"
	"sync"

	"acd-tierlist/internal/domain"
)

// MemoryBackend keeps the encoded root in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load(ctx context.Context) (*domain.Root, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.data == nil {
		return nil, ErrRootNotFound
	}
	return decodeRoot(b.data)
}

func (b *MemoryBackend) Save(ctx context.Context, root *domain.Root) error {
	data, err := encodeRoot(root)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.data = data
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
