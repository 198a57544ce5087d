package ledger

import (
	"math"
	"time"
)

// Saldo inicial concedido na criação da conta e regras fixas de pontuação.
const (
	InitialBalance   int64 = 50
	PredictionReward int64 = 5
	PredictionFine   int64 = 10
)

// Status de aposta. Transições válidas partem sempre de PENDING.
const (
	StatusPending  = "PENDING"
	StatusSold     = "SOLD"
	StatusWon      = "WON"
	StatusLost     = "LOST"
	StatusReturned = "RETURNED"
)

// Tipos de lançamento registrados na tabela de transações.
const (
	TxDeposit    = "DEPOSIT"
	TxWagerPlace = "WAGER_PLACE"
	TxWagerSell  = "WAGER_SELL"
	TxWagerWon   = "WAGER_WON"
	TxWagerLost  = "WAGER_LOST"
	TxWagerPush  = "WAGER_PUSH"
	TxPrediction = "PREDICTION"
	TxPrize      = "PRIZE"
)

// Account é a conta de pontos de um usuário.
// WagerRemaining é o rollover pendente: pontos que ainda precisam ser apostados
// antes do resgate de prêmios. Só cresce via depósito explícito.
type Account struct {
	UserID         string    `json:"userId"`
	Balance        int64     `json:"balance"`
	WagerRemaining int64     `json:"wagerRemaining"`
	Wins           int64     `json:"wins"`
	Losses         int64     `json:"losses"`
	Profit         int64     `json:"profit"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Transaction é um lançamento do extrato. Invariante de auditoria:
// BalanceAfter - BalanceBefore == Amount, sempre.
type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Kind          string    `json:"kind"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	Reference     string    `json:"reference,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Wager é a aposta persistida. O preço é congelado no momento da criação;
// refreshes posteriores do snapshot não alteram apostas existentes.
type Wager struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	MatchID         string     `json:"matchId"`
	HomeTeam        string     `json:"homeTeam"`
	AwayTeam        string     `json:"awayTeam"`
	OutcomeKey      string     `json:"outcomeKey"`
	Stake           int64      `json:"stake"`
	Price           float64    `json:"price"`
	PotentialPayout int64      `json:"potentialPayout"`
	Status          string     `json:"status"`
	IsLive          bool       `json:"isLive"`
	CreatedAt       time.Time  `json:"createdAt"`
	SettledAt       *time.Time `json:"settledAt,omitempty"`
}

// PotentialPayout calcula o retorno bruto de uma aposta (floor de stake*price)
func PotentialPayout(stake int64, price float64) int64 {
	return int64(math.Floor(float64(stake) * price))
}

// SellValue calcula o valor de venda antecipada: metade do stake, piso em 1
func SellValue(stake int64) int64 {
	v := stake / 2
	if v < 1 {
		v = 1
	}
	return v
}

// Prediction é um palpite de resultado (home|draw|away), sem stake.
// Liquida só pelo desfecho da partida com deltas fixos de pontos.
type Prediction struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	MatchID     string     `json:"matchId"`
	HomeTeam    string     `json:"homeTeam"`
	AwayTeam    string     `json:"awayTeam"`
	Pick        string     `json:"pick"`
	Status      string     `json:"status"`
	PointsDelta int64      `json:"pointsDelta"`
	CreatedAt   time.Time  `json:"createdAt"`
	SettledAt   *time.Time `json:"settledAt,omitempty"`
}

// SettledMark é o marcador persistido de partida já liquidada; impede o
// scheduler de reprocessar a mesma partida em ciclos seguintes.
type SettledMark struct {
	MatchID       string    `json:"matchId"`
	WagersSettled int       `json:"wagersSettled"`
	SettledAt     time.Time `json:"settledAt"`
}

// PrizeClaim registra um resgate de prêmio debitado da conta.
type PrizeClaim struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PrizeID   string    `json:"prizeId"`
	Cost      int64     `json:"cost"`
	CreatedAt time.Time `json:"createdAt"`
}
