package dto

type PlaceWagerRequest struct {
	UserID     string  `json:"userId"`
	MatchID    string  `json:"matchId"`
	OutcomeKey string  `json:"outcomeKey"` // ex: "total_over_2.5"
	Stake      int64   `json:"stake"`
	Price      float64 `json:"price"` // preço que o cliente viu
}

type SellWagerRequest struct {
	UserID  string `json:"userId"`
	WagerID string `json:"wagerId"`
}

type PredictionRequest struct {
	UserID  string `json:"userId"`
	MatchID string `json:"matchId"`
	Pick    string `json:"pick"` // home | draw | away
}

type ClaimPrizeRequest struct {
	UserID  string `json:"userId"`
	PrizeID string `json:"prizeId"`
}

type DepositRequest struct {
	UserID      string `json:"userId"`
	Amount      int64  `json:"amount"`
	AffectWager bool   `json:"affectWager"` // valor entra no rollover pendente
	Note        string `json:"note"`
}

type RepointRequest struct {
	FromMatchID string `json:"fromMatchId"`
	ToMatchID   string `json:"toMatchId"`
}
