package server

import (
	"time"

	"acd-tierlist/internal/domain"
	"acd-tierlist/internal/service"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionID string    `json:"sessionId"`
	CSRFToken string    `json:"csrfToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ListPlayersRequest struct {
	Region string `json:"region,omitempty"`
	Kit    string `json:"kit,omitempty"`
	Query  string `json:"query,omitempty"`
}

type ListPlayersResponse struct {
	Players     []domain.Player `json:"players"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

type GetPlayerRequest struct {
	ID string `json:"id"`
}

type PlayerResponse struct {
	Player domain.Player `json:"player"`
}

type KitStandingsResponse struct {
	Standings []service.KitStanding `json:"standings"`
}

type TierInfo struct {
	Tier   domain.Tier `json:"tier"`
	Points int         `json:"points"`
}

type KitInfo struct {
	Kit  domain.Kit `json:"kit"`
	Name string     `json:"name"`
}

type RankInfo struct {
	Rank      domain.Rank `json:"rank"`
	MinPoints int         `json:"minPoints"`
}

type CatalogResponse struct {
	Tiers []TierInfo `json:"tiers"`
	Kits  []KitInfo  `json:"kits"`
	Ranks []RankInfo `json:"ranks"`
}

type SetTierRequest struct {
	PlayerID string `json:"playerId"`
	Kit      string `json:"kit"`
	Tier     string `json:"tier"`
}

type AddPlayerRequest struct {
	Name   string                  `json:"name"`
	Region string                  `json:"region"`
	Tiers  []domain.TierAssignment `json:"tiers"`
}

type AddPlayerResponse struct {
	ID string `json:"id"`
}

type RemovePlayerRequest struct {
	PlayerID string `json:"playerId"`
}
