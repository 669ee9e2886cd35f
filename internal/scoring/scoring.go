package scoring

import (
	"fmt"

	"acd-tierlist/internal/domain"
)

var tierPoints = map[domain.Tier]int{
	domain.TierHT1: 100,
	domain.TierLT1: 90,
	domain.TierHT2: 80,
	domain.TierLT2: 70,
	domain.TierHT3: 60,
	domain.TierLT3: 50,
	domain.TierHT4: 40,
	domain.TierLT4: 30,
	domain.TierHT5: 20,
	domain.TierLT5: 10,
}

var rankThresholds = []struct {
	min  int
	rank domain.Rank
}{
	{1001, domain.RankDiamond},
	{601, domain.RankPlatinum},
	{301, domain.RankGold},
	{101, domain.RankSilver},
}

// PointsFor panics on a tier outside the catalog; callers validate input before scoring.
func PointsFor(tier domain.Tier) int {
	p, ok := tierPoints[tier]
	if !ok {
		panic(fmt.Sprintf("scoring: no points for tier %q", tier))
	}
	return p
}

func ScoreOf(assignments []domain.TierAssignment) int {
	total := 0
	for _, a := range assignments {
		total += PointsFor(a.Tier)
	}
	return total
}

func RankOf(score int) domain.Rank {
	for _, t := range rankThresholds {
		if score >= t.min {
			return t.rank
		}
	}
	return domain.RankBronze
}

// Apply recomputes the derived fields of p from its tier assignments.
func Apply(p *domain.Player) {
	p.Points = ScoreOf(p.Tiers)
	p.Rank = RankOf(p.Points)
}

type Threshold struct {
	Rank domain.Rank
	Min  int
}

// Thresholds lists every rank with the minimum score that earns it, best rank first.
func Thresholds() []Threshold {
	out := make([]Threshold, 0, len(rankThresholds)+1)
	for _, t := range rankThresholds {
		out = append(out, Threshold{Rank: t.rank, Min: t.min})
	}
	return append(out, Threshold{Rank: domain.RankBronze, Min: 0})
}
