package dto

import (
	"time"

	"github.com/radieske/fanbet-engine/internal/bet-service/catalog"
)

type MatchMarkets struct {
	MatchID   string           `json:"matchId"`
	HomeTeam  string           `json:"homeTeam"`
	AwayTeam  string           `json:"awayTeam"`
	IsLive    bool             `json:"isLive"`
	HomeScore int              `json:"homeScore"`
	AwayScore int              `json:"awayScore"`
	Suspended bool             `json:"suspended"`
	KickoffAt time.Time        `json:"kickoffAt"`
	Markets   []catalog.Market `json:"markets"`
}

type PlaceWagerResponse struct {
	WagerID         string  `json:"wagerId"`
	Status          string  `json:"status"`
	Price           float64 `json:"price"` // preço efetivamente congelado
	PotentialPayout int64   `json:"potentialPayout"`
	Balance         int64   `json:"balance"`
}

type SellWagerResponse struct {
	WagerID string `json:"wagerId"`
	Refund  int64  `json:"refund"`
	Balance int64  `json:"balance"`
}

type RepointResponse struct {
	Moved int64 `json:"moved"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
