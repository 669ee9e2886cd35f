package store

import (
	"fmt"
	"strings"

	"acd-tierlist/internal/domain"
	"acd-tierlist/internal/scoring"
)

func validateAssignments(tiers []domain.TierAssignment) error {
	seen := make(map[domain.Kit]struct{}, len(tiers))
	for _, a := range tiers {
		if !a.Kit.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidKit, a.Kit)
		}
		if !a.Tier.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidTier, a.Tier)
		}
		if _, dup := seen[a.Kit]; dup {
			return fmt.Errorf("%w: kit %s assigned twice", ErrInvalidPlayer, a.Kit)
		}
		seen[a.Kit] = struct{}{}
	}
	return nil
}

func validateDraft(d domain.PlayerDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	return validateAssignments(d.Tiers)
}

// validateStructure checks what scoring needs before it can run: unique ids
// and catalog-only kits and tiers.
func validateStructure(root *domain.Root) error {
	ids := make(map[string]struct{}, len(root.Players))
	for _, p := range root.Players {
		if p.ID == "" {
			return fmt.Errorf("player %q has no id", p.Name)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("duplicate player id %s", p.ID)
		}
		ids[p.ID] = struct{}{}

		if err := validateAssignments(p.Tiers); err != nil {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}
	}
	return nil
}

func validateDerived(root *domain.Root) error {
	for i, p := range root.Players {
		points := scoring.ScoreOf(p.Tiers)
		if p.Points != points || p.Rank != scoring.RankOf(points) {
			return fmt.Errorf("player %s: points/rank out of sync with tiers", p.ID)
		}
		if i > 0 && root.Players[i-1].Points < p.Points {
			return fmt.Errorf("players not sorted at position %d", i)
		}
	}
	return nil
}

func upsertTier(p *domain.Player, kit domain.Kit, tier domain.Tier) {
	for i := range p.Tiers {
		if p.Tiers[i].Kit == kit {
			p.Tiers[i].Tier = tier
			return
		}
	}
	p.Tiers = append(p.Tiers, domain.TierAssignment{Kit: kit, Tier: tier})
}
