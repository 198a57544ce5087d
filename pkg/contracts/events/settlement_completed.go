package events

import "time"

// Evento emitido pelo settlement-worker após liquidar uma partida.
// Consumido pelo colaborador de notificação do operador.
type SettlementCompleted struct {
	MatchID            string    `json:"match_id"`
	HomeTeam           string    `json:"home_team"`
	AwayTeam           string    `json:"away_team"`
	HomeScore          int       `json:"home_score"`
	AwayScore          int       `json:"away_score"`
	Outcome            string    `json:"outcome"` // home | draw | away
	WagersSettled      int       `json:"wagers_settled"`
	WagersWon          int       `json:"wagers_won"`
	WagersLost         int       `json:"wagers_lost"`
	WagersPushed       int       `json:"wagers_pushed"`
	PredictionsSettled int       `json:"predictions_settled"`
	PointsPaid         int64     `json:"points_paid"`   // créditos aplicados (vitórias e devoluções)
	PointsVoided       int64     `json:"points_voided"` // stakes perdidos
	Ts                 time.Time `json:"ts"`
}
