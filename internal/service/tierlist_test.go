package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/domain"
	"acd-tierlist/internal/repository"
	"acd-tierlist/internal/seed"
	"acd-tierlist/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "csrf-token"

func newTestService(t *testing.T) *TierListService {
	t.Helper()
	st := store.New(repository.NewMemoryBackend(), zerolog.Nop())
	svc := NewTierListService(st, zerolog.Nop())
	loader := seed.NewLoader(&config.Config{}, seed.NewFetcher(), zerolog.Nop())
	require.NoError(t, svc.Bootstrap(context.Background(), loader))
	return svc
}

func TestBootstrapUsesEmbeddedRoster(t *testing.T) {
	svc := newTestService(t)

	players, err := svc.ListPlayers(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, players, 32)
	assert.Equal(t, "Ellies V", players[0].Name)
	assert.Equal(t, 870, players[0].Points)
	assert.Equal(t, domain.RankPlatinum, players[0].Rank)
}

func TestBootstrapSkipsSeedWhenPersisted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// a loader pointing at a missing file would fail if it were consulted
	broken := seed.NewLoader(&config.Config{SeedFile: filepath.Join(t.TempDir(), "missing.json")}, seed.NewFetcher(), zerolog.Nop())
	assert.NoError(t, svc.Bootstrap(ctx, broken))
}

func TestBootstrapFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"players":[{"id":"1","name":"Solo","region":"EU","tiers":[{"kit":"sword","tier":"HT1"}]}]}`), 0o600))

	st := store.New(repository.NewMemoryBackend(), zerolog.Nop())
	svc := NewTierListService(st, zerolog.Nop())
	loader := seed.NewLoader(&config.Config{SeedFile: path}, seed.NewFetcher(), zerolog.Nop())
	require.NoError(t, svc.Bootstrap(context.Background(), loader))

	players, err := svc.ListPlayers(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, 100, players[0].Points)
}

func TestListPlayersFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	eu, err := svc.ListPlayers(ctx, Filter{Region: "eu"})
	require.NoError(t, err)
	assert.Len(t, eu, 16)
	for _, p := range eu {
		assert.Equal(t, "EU", p.Region)
	}

	found, err := svc.ListPlayers(ctx, Filter{Query: "syc"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sycthy", found[0].Name)

	_, err = svc.ListPlayers(ctx, Filter{Kit: "bow"})
	assert.ErrorIs(t, err, store.ErrInvalidKit)
}

func TestListPlayersByKit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddPlayer(ctx, domain.PlayerDraft{Name: "Newbie", Region: "EU"}, token)
	require.NoError(t, err)

	withSword, err := svc.ListPlayers(ctx, Filter{Kit: "sword"})
	require.NoError(t, err)
	for _, p := range withSword {
		assert.NotEqual(t, id, p.ID)
	}
}

func TestKitStandings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetTier(ctx, "32", "shieldless", "HT1", token)
	require.NoError(t, err)

	standings, err := svc.KitStandings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, len(domain.Kits))

	for i, st := range standings {
		assert.Equal(t, domain.Kits[i], st.Kit)
		assert.Equal(t, st.Kit.DisplayName(), st.Name)
		for j := 1; j < len(st.Entries); j++ {
			assert.LessOrEqual(t, st.Entries[j-1].Tier.Index(), st.Entries[j].Tier.Index())
		}
	}

	last := standings[len(standings)-1]
	require.Equal(t, domain.KitShieldless, last.Kit)
	assert.Equal(t, domain.TierHT1, last.Entries[0].Tier)
	var promoted *StandingEntry
	for i := range last.Entries {
		if last.Entries[i].PlayerID == "32" {
			promoted = &last.Entries[i]
		}
	}
	require.NotNil(t, promoted)
	assert.Equal(t, domain.TierHT1, promoted.Tier)
}

func TestSetTierParsesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.SetTier(ctx, "1", " Axe ", "lt5", token)
	require.NoError(t, err)
	tier, ok := p.TierFor(domain.KitAxe)
	require.True(t, ok)
	assert.Equal(t, domain.TierLT5, tier)

	_, err = svc.SetTier(ctx, "1", "bow", "HT1", token)
	assert.ErrorIs(t, err, store.ErrInvalidKit)
	_, err = svc.SetTier(ctx, "1", "axe", "S", token)
	assert.ErrorIs(t, err, store.ErrInvalidTier)
	_, err = svc.SetTier(ctx, "1", "bow", "S", "")
	assert.ErrorIs(t, err, store.ErrUnauthorized)
}

func TestRemovePlayer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RemovePlayer(ctx, "5", token))
	_, err := svc.Player(ctx, "5")
	assert.ErrorIs(t, err, store.ErrPlayerNotFound)
}

func TestKitStandingsHonorsCancellation(t *testing.T) {
	svc := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	standings, err := svc.KitStandings(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, standings)
}
