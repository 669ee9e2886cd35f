package domain

import (
	"strconv"
	"time"
)

type TierAssignment struct {
	Kit  Kit  `json:"kit" yaml:"kit"`
	Tier Tier `json:"tier" yaml:"tier"`
}

type Player struct {
	ID     string           `json:"id" yaml:"id"`
	Name   string           `json:"name" yaml:"name"`
	Rank   Rank             `json:"rank" yaml:"rank"`
	Points int              `json:"points" yaml:"points"`
	Region string           `json:"region" yaml:"region"`
	Tiers  []TierAssignment `json:"tiers" yaml:"tiers"`
}

// PlayerDraft is a player before the store assigns an id and derives points and rank.
type PlayerDraft struct {
	Name   string           `json:"name" yaml:"name"`
	Region string           `json:"region" yaml:"region"`
	Tiers  []TierAssignment `json:"tiers" yaml:"tiers"`
}

// Root is the persisted collection: the unit of every read and write.
type Root struct {
	Players     []Player  `json:"players"`
	LastUpdated time.Time `json:"lastUpdated"`
	// Sequence is the last numeric id handed out.
	Sequence int `json:"sequence,omitempty"`
}

func (p Player) TierFor(kit Kit) (Tier, bool) {
	for _, a := range p.Tiers {
		if a.Kit == kit {
			return a.Tier, true
		}
	}
	return "", false
}

func (p Player) Clone() Player {
	c := p
	c.Tiers = append([]TierAssignment(nil), p.Tiers...)
	return c
}

func (r *Root) Clone() *Root {
	c := &Root{
		Players:     make([]Player, len(r.Players)),
		LastUpdated: r.LastUpdated,
		Sequence:    r.Sequence,
	}
	for i, p := range r.Players {
		c.Players[i] = p.Clone()
	}
	return c
}

// IndexOf returns the position of the player with the given id, or -1.
func (r *Root) IndexOf(id string) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// SyncSequence raises Sequence to at least the highest numeric id in use.
func (r *Root) SyncSequence() {
	for _, p := range r.Players {
		if n, err := strconv.Atoi(p.ID); err == nil && n > r.Sequence {
			r.Sequence = n
		}
	}
}

// NextID reserves and returns a numeric id that no player has held before.
func (r *Root) NextID() string {
	r.SyncSequence()
	if r.Sequence < len(r.Players) {
		r.Sequence = len(r.Players)
	}
	r.Sequence++
	return strconv.Itoa(r.Sequence)
}
