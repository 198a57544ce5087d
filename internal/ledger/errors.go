package ledger

import "errors"

// Erros de domínio mapeados para respostas 4xx na camada HTTP.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("not found")
	ErrWagerNotPending     = errors.New("wager is not pending")
	ErrPlaythroughPending  = errors.New("wager playthrough not completed")
	ErrInvalidStake        = errors.New("stake must be positive")
	ErrInvalidPick         = errors.New("invalid prediction pick")
	ErrDuplicatePrediction = errors.New("prediction already exists for match")
)
