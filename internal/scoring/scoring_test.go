package scoring

import (
	"testing"

	"acd-tierlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointTableCoversEveryTier(t *testing.T) {
	assert.Len(t, tierPoints, len(domain.Tiers))

	prev := 0
	for i, tier := range domain.Tiers {
		p := PointsFor(tier)
		assert.Equal(t, p, ScoreOf([]domain.TierAssignment{{Kit: domain.KitSword, Tier: tier}}))
		if i > 0 {
			assert.Less(t, p, prev, "%s should be worth less than the tier above it", tier)
		}
		prev = p
	}
	assert.Equal(t, 100, PointsFor(domain.TierHT1))
	assert.Equal(t, 10, PointsFor(domain.TierLT5))
}

func TestPointsForUnknownTierPanics(t *testing.T) {
	assert.Panics(t, func() { PointsFor(domain.Tier("HT9")) })
}

func TestScoreOf(t *testing.T) {
	assert.Equal(t, 0, ScoreOf(nil))
	assert.Equal(t, 150, ScoreOf([]domain.TierAssignment{
		{Kit: domain.KitSword, Tier: domain.TierHT1},
		{Kit: domain.KitAxe, Tier: domain.TierLT3},
	}))
}

func TestRankOf(t *testing.T) {
	tests := []struct {
		score int
		want  domain.Rank
	}{
		{0, domain.RankBronze},
		{100, domain.RankBronze},
		{101, domain.RankSilver},
		{300, domain.RankSilver},
		{301, domain.RankGold},
		{600, domain.RankGold},
		{601, domain.RankPlatinum},
		{1000, domain.RankPlatinum},
		{1001, domain.RankDiamond},
		{5000, domain.RankDiamond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RankOf(tt.score), "score %d", tt.score)
	}
}

func TestApply(t *testing.T) {
	p := domain.Player{
		Rank:   "Master",
		Points: 500,
		Tiers: []domain.TierAssignment{
			{Kit: domain.KitSword, Tier: domain.TierHT1},
			{Kit: domain.KitAxe, Tier: domain.TierHT1},
		},
	}
	Apply(&p)

	assert.Equal(t, 200, p.Points)
	assert.Equal(t, domain.RankSilver, p.Rank)
}

func TestThresholdsMatchRankOf(t *testing.T) {
	thresholds := Thresholds()
	require.Len(t, thresholds, 5)
	assert.Equal(t, domain.RankDiamond, thresholds[0].Rank)
	assert.Equal(t, domain.RankBronze, thresholds[4].Rank)

	for _, th := range thresholds {
		assert.Equal(t, th.Rank, RankOf(th.Min))
	}
}
