package domain

import (
	"fmt"
	"strings"
)

type Tier string

// Highest first.
const (
	TierHT1 Tier = "HT1"
	TierLT1 Tier = "LT1"
	TierHT2 Tier = "HT2"
	TierLT2 Tier = "LT2"
	TierHT3 Tier = "HT3"
	TierLT3 Tier = "LT3"
	TierHT4 Tier = "HT4"
	TierLT4 Tier = "LT4"
	TierHT5 Tier = "HT5"
	TierLT5 Tier = "LT5"
)

var Tiers = []Tier{
	TierHT1, TierLT1,
	TierHT2, TierLT2,
	TierHT3, TierLT3,
	TierHT4, TierLT4,
	TierHT5, TierLT5,
}

type Kit string

const (
	KitSword      Kit = "sword"
	KitAxe        Kit = "axe"
	KitCrystal    Kit = "crystal"
	KitMace       Kit = "mace"
	KitDiaPot     Kit = "diapot"
	KitNetPot     Kit = "netpot"
	KitSMP        Kit = "smp"
	KitDiaSMP     Kit = "diasmp"
	KitUHC        Kit = "uhc"
	KitShieldless Kit = "shieldless"
)

var Kits = []Kit{
	KitSword,
	KitAxe,
	KitCrystal,
	KitMace,
	KitDiaPot,
	KitNetPot,
	KitSMP,
	KitDiaSMP,
	KitUHC,
	KitShieldless,
}

var kitNames = map[Kit]string{
	KitSword:      "Sword",
	KitAxe:        "Axe",
	KitCrystal:    "Crystal",
	KitMace:       "Mace",
	KitDiaPot:     "DiaPot",
	KitNetPot:     "NetPot",
	KitSMP:        "SMP",
	KitDiaSMP:     "DiaSMP",
	KitUHC:        "UHC",
	KitShieldless: "Shieldless",
}

// Rank is the coarse classification derived from a player's points.
type Rank string

const (
	RankDiamond  Rank = "Diamond"
	RankPlatinum Rank = "Platinum"
	RankGold     Rank = "Gold"
	RankSilver   Rank = "Silver"
	RankBronze   Rank = "Bronze"
)

func (t Tier) Valid() bool {
	return t.Index() >= 0
}

// Index is the tier's position in Tiers, or -1 when it is not a known tier.
func (t Tier) Index() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

func (k Kit) Valid() bool {
	_, ok := kitNames[k]
	return ok
}

func (k Kit) DisplayName() string {
	return kitNames[k]
}

func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

func ParseKit(s string) (Kit, error) {
	k := Kit(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown kit %q", s)
	}
	return k, nil
}
