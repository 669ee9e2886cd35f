package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"acd-tierlist/internal/constants"
	"acd-tierlist/internal/domain"
	"acd-tierlist/internal/seed"
	"acd-tierlist/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Filter struct {
	Region string
	Kit    string
	Query  string
}

type KitStanding struct {
	Kit     domain.Kit      `json:"kit"`
	Name    string          `json:"name"`
	Entries []StandingEntry `json:"entries"`
}

type StandingEntry struct {
	PlayerID string      `json:"playerId"`
	Name     string      `json:"name"`
	Region   string      `json:"region"`
	Tier     domain.Tier `json:"tier"`
}

type TierListService struct {
	store  *store.Store
	logger zerolog.Logger
}

func NewTierListService(st *store.Store, logger zerolog.Logger) *TierListService {
	return &TierListService{store: st, logger: logger.With().Str("component", "tierlist").Logger()}
}

// Bootstrap seeds the store on first start. The seed source is only
// consulted when nothing has been persisted yet.
func (s *TierListService) Bootstrap(ctx context.Context, loader *seed.Loader) error {
	ctx, cancel := context.WithTimeout(ctx, constants.SeedFetchTimeout)
	defer cancel()

	if updated, err := s.store.LastUpdated(ctx); err == nil {
		s.logger.Info().Time("last_updated", updated).Msg("using persisted tier list")
		return nil
	}

	players, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}
	return s.store.Bootstrap(ctx, players)
}

func (s *TierListService) ListPlayers(ctx context.Context, f Filter) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	var kit domain.Kit
	if f.Kit != "" {
		k, err := domain.ParseKit(f.Kit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidKit, err)
		}
		kit = k
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))

	players := s.store.ListPlayers(ctx)
	out := players[:0]
	for _, p := range players {
		if f.Region != "" && !strings.EqualFold(p.Region, f.Region) {
			continue
		}
		if kit != "" {
			if _, ok := p.TierFor(kit); !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}

	s.logger.Debug().Int("count", len(out)).Str("region", f.Region).Str("kit", f.Kit).Msg("players listed")
	return out, nil
}

func (s *TierListService) Player(ctx context.Context, id string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	return s.store.Player(ctx, id)
}

func (s *TierListService) LastUpdated(ctx context.Context) (time.Time, error) {
	return s.store.LastUpdated(ctx)
}

// KitStandings ranks players within each kit by tier, best first. Players
// with the same tier keep their overall order.
func (s *TierListService) KitStandings(ctx context.Context) ([]KitStanding, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	players := s.store.ListPlayers(ctx)
	standings := make([]KitStanding, len(domain.Kits))

	// Kits are independent. Fan-out is capped so large rosters with many
	// kits do not starve request handlers.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.StandingsConcurrency)

	for i, kit := range domain.Kits {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			standings[i] = standingFor(kit, players)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to build kit standings")
		return nil, fmt.Errorf("failed to build kit standings: %w", err)
	}
	return standings, nil
}

func standingFor(kit domain.Kit, players []domain.Player) KitStanding {
	entries := []StandingEntry{}
	for _, p := range players {
		if tier, ok := p.TierFor(kit); ok {
			entries = append(entries, StandingEntry{PlayerID: p.ID, Name: p.Name, Region: p.Region, Tier: tier})
		}
	}
	slices.SortStableFunc(entries, func(a, b StandingEntry) int {
		return cmp.Compare(a.Tier.Index(), b.Tier.Index())
	})
	return KitStanding{Kit: kit, Name: kit.DisplayName(), Entries: entries}
}

func (s *TierListService) SetTier(ctx context.Context, playerID, kit, tier, token string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	// token check precedes input parsing
	if err := store.RequireToken(token); err != nil {
		return nil, err
	}
	k, err := domain.ParseKit(kit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidKit, err)
	}
	t, err := domain.ParseTier(tier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidTier, err)
	}
	return s.store.SetTier(ctx, playerID, k, t, token)
}

func (s *TierListService) AddPlayer(ctx context.Context, draft domain.PlayerDraft, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	return s.store.AddPlayer(ctx, draft, token)
}

func (s *TierListService) RemovePlayer(ctx context.Context, playerID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()

	return s.store.RemovePlayer(ctx, playerID, token)
}
