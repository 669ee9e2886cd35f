package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"acd-tierlist/internal/domain"
	"acd-tierlist/internal/metrics"
	"acd-tierlist/internal/repository"
	"acd-tierlist/internal/scoring"

	"github.com/rs/zerolog"
)

var (
	ErrUnauthorized       = errors.New("missing anti-forgery token")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCorruptRoot        = repository.ErrCorruptRoot
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInvalidKit         = errors.New("invalid kit")
	ErrInvalidTier        = errors.New("invalid tier")
	ErrInvalidPlayer      = errors.New("invalid player")
)

// Store is the single authoritative view over the persisted collection root.
// Mutations are serialized; each one loads, changes and saves the whole root.
type Store struct {
	backend repository.Backend
	logger  zerolog.Logger
	now     func() time.Time

	mu sync.RWMutex
}

func New(backend repository.Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "store").Logger(),
		now:     time.Now,
	}
}

// Bootstrap persists the seed roster when no root exists yet. Seed ranks and
// points are ignored and derived again from the tiers.
func (s *Store) Bootstrap(ctx context.Context, seed []domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.backend.Load(ctx)
	if err == nil {
		s.logger.Debug().Msg("root already exists, skipping bootstrap")
		return nil
	}
	if !errors.Is(err, repository.ErrRootNotFound) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	root := &domain.Root{Players: make([]domain.Player, 0, len(seed))}
	for _, p := range seed {
		root.Players = append(root.Players, p.Clone())
	}
	if err := validateStructure(root); err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}
	root.SyncSequence()

	if err := s.commit(ctx, root); err != nil {
		return err
	}

	s.logger.Info().Int("players", len(root.Players)).Msg("collection root bootstrapped")
	return nil
}

// ListPlayers returns every player ordered by points. A missing or unreadable
// root yields an empty list.
func (s *Store) ListPlayers(ctx context.Context) []domain.Player {
	defer metrics.ObserveRead("list_players", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	root, err := s.load(ctx)
	if err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to list players")
		return []domain.Player{}
	}
	sortPlayers(root.Players)
	return root.Players
}

func (s *Store) Player(ctx context.Context, id string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := root.IndexOf(id)
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}
	return &root.Players[idx], nil
}

// LastUpdated is the timestamp of the last persisted write.
func (s *Store) LastUpdated(ctx context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root, err := s.load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return root.LastUpdated, nil
}

// Transact runs fn against a freshly loaded root. After fn returns, derived
// fields are recomputed, players re-sorted and invariants checked before the
// whole root is saved. If fn fails nothing is written.
func (s *Store) Transact(ctx context.Context, fn func(root *domain.Root) error) (*domain.Root, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(root); err != nil {
		return nil, err
	}
	if err := validateStructure(root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlayer, err)
	}
	if err := s.commit(ctx, root); err != nil {
		return nil, err
	}
	return root, nil
}

func (s *Store) SetTier(ctx context.Context, playerID string, kit domain.Kit, tier domain.Tier, token string) (player *domain.Player, err error) {
	defer func(start time.Time) { metrics.ObserveMutation("set_tier", start, err) }(time.Now())

	if err := RequireToken(token); err != nil {
		s.log(ctx).Warn().Str("player_id", playerID).Msg("tier update rejected: missing token")
		return nil, err
	}
	if !kit.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKit, kit)
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}

	root, err := s.Transact(ctx, func(root *domain.Root) error {
		idx := root.IndexOf(playerID)
		if idx < 0 {
			return ErrPlayerNotFound
		}
		upsertTier(&root.Players[idx], kit, tier)
		return nil
	})
	if err != nil {
		s.log(ctx).Warn().Err(err).Str("player_id", playerID).Str("kit", string(kit)).Msg("tier update failed")
		return nil, err
	}

	updated := root.Players[root.IndexOf(playerID)]

	s.log(ctx).Info().
		Str("player_id", playerID).
		Str("kit", string(kit)).
		Str("tier", string(tier)).
		Int("points", updated.Points).
		Str("rank", string(updated.Rank)).
		Time("updated_at", root.LastUpdated).
		Msg("tier updated")
	metrics.TierUpdated(string(kit))

	return &updated, nil
}

func (s *Store) AddPlayer(ctx context.Context, draft domain.PlayerDraft, token string) (id string, err error) {
	defer func(start time.Time) { metrics.ObserveMutation("add_player", start, err) }(time.Now())

	if err := RequireToken(token); err != nil {
		return "", err
	}
	if err := validateDraft(draft); err != nil {
		return "", err
	}

	_, err = s.Transact(ctx, func(root *domain.Root) error {
		id = root.NextID()
		root.Players = append(root.Players, domain.Player{
			ID:     id,
			Name:   strings.TrimSpace(draft.Name),
			Region: strings.TrimSpace(draft.Region),
			Tiers:  append([]domain.TierAssignment{}, draft.Tiers...),
		})
		return nil
	})
	if err != nil {
		s.log(ctx).Warn().Err(err).Str("name", draft.Name).Msg("add player failed")
		return "", err
	}

	s.log(ctx).Info().Str("player_id", id).Str("name", draft.Name).Msg("player added")
	return id, nil
}

func (s *Store) RemovePlayer(ctx context.Context, playerID string, token string) (err error) {
	defer func(start time.Time) { metrics.ObserveMutation("remove_player", start, err) }(time.Now())

	if err := RequireToken(token); err != nil {
		return err
	}

	_, err = s.Transact(ctx, func(root *domain.Root) error {
		idx := root.IndexOf(playerID)
		if idx < 0 {
			return ErrPlayerNotFound
		}
		root.SyncSequence()
		root.Players = slices.Delete(root.Players, idx, idx+1)
		return nil
	})
	if err != nil {
		s.log(ctx).Warn().Err(err).Str("player_id", playerID).Msg("remove player failed")
		return err
	}

	s.log(ctx).Info().Str("player_id", playerID).Msg("player removed")
	return nil
}

// load returns a root the caller owns. Backends hand out fresh copies.
func (s *Store) load(ctx context.Context) (*domain.Root, error) {
	root, err := s.backend.Load(ctx)
	if errors.Is(err, repository.ErrCorruptRoot) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := validateStructure(root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRoot, err)
	}
	return root, nil
}

// commit derives points and rank, sorts, stamps and saves. Caller holds mu.
func (s *Store) commit(ctx context.Context, root *domain.Root) error {
	for i := range root.Players {
		scoring.Apply(&root.Players[i])
	}
	sortPlayers(root.Players)

	if err := validateDerived(root); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlayer, err)
	}

	root.LastUpdated = s.now().UTC()
	if err := s.backend.Save(ctx, root); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	metrics.SetPlayers(len(root.Players))
	return nil
}

// log prefers the request-scoped logger carried by ctx.
func (s *Store) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func sortPlayers(players []domain.Player) {
	slices.SortStableFunc(players, func(a, b domain.Player) int {
		return cmp.Compare(b.Points, a.Points)
	})
}
