package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/database"
	"acd-tierlist/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoot() *domain.Root {
	return &domain.Root{
		Players: []domain.Player{
			{
				ID:     "1",
				Name:   "Sycthy",
				Rank:   domain.RankSilver,
				Points: 150,
				Region: "EU",
				Tiers: []domain.TierAssignment{
					{Kit: domain.KitSword, Tier: domain.TierHT1},
					{Kit: domain.KitAxe, Tier: domain.TierLT3},
				},
			},
		},
		LastUpdated: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Sequence:    1,
	}
}

func runBackendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Load(ctx)
	require.ErrorIs(t, err, ErrRootNotFound)

	want := sampleRoot()
	require.NoError(t, b.Save(ctx, want))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Players, got.Players)
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
	assert.Equal(t, want.Sequence, got.Sequence)

	// mutating a loaded root must not leak into the backend
	got.Players[0].Name = "changed"
	again, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sycthy", again.Players[0].Name)

	want.Players = append(want.Players, domain.Player{ID: "2", Name: "Wido", Rank: domain.RankBronze, Tiers: []domain.TierAssignment{}})
	require.NoError(t, b.Save(ctx, want))
	got, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Players, 2)
}

func TestMemoryBackend(t *testing.T) {
	runBackendContract(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tierlist.json")
	runBackendContract(t, NewFileBackend(path, zerolog.Nop()))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFileBackendCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tierlist.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileBackend(path, zerolog.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptRoot)
}

func TestSQLiteBackend(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "tierlist.db"), zerolog.Nop())
	require.NoError(t, err)

	b := NewSQLiteBackend(db, "test_root", zerolog.Nop())
	defer b.Close()

	runBackendContract(t, b)
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	key := "tierlist_test_" + time.Now().Format("150405.000000")
	t.Cleanup(func() { client.Del(context.Background(), key) })

	b := NewRedisBackend(client, key, zerolog.Nop())
	runBackendContract(t, b)
	require.NoError(t, b.Close())
}

func TestNewSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		want    any
	}{
		{config.BackendMemory, &MemoryBackend{}},
		{config.BackendFile, &FileBackend{}},
		{config.BackendSQLite, &SQLiteBackend{}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := &config.Config{
				StoreBackend: tt.backend,
				DBPath:       filepath.Join(dir, "tierlist.db"),
				DataFile:     filepath.Join(dir, "tierlist.json"),
				RootKey:      "root",
			}
			b, err := New(cfg, zerolog.Nop())
			require.NoError(t, err)
			defer b.Close()
			assert.IsType(t, tt.want, b)
		})
	}

	_, err := New(&config.Config{StoreBackend: "etcd"}, zerolog.Nop())
	assert.Error(t, err)
}
