package settlement

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/ledger"
	"github.com/radieske/fanbet-engine/internal/stats"
	"github.com/radieske/fanbet-engine/pkg/outcome"
)

// Ledger é o subconjunto da contabilidade usado pela liquidação.
type Ledger interface {
	PendingWagers(ctx context.Context, matchID string) ([]ledger.Wager, error)
	PendingPredictions(ctx context.Context, matchID string) ([]ledger.Prediction, error)
	SettleWon(ctx context.Context, wagerID string) error
	SettleLost(ctx context.Context, wagerID string) error
	SettlePush(ctx context.Context, wagerID string) error
	SettlePrediction(ctx context.Context, predictionID string, correct bool) error
}

// Summary agrega o resultado de uma passada de liquidação sobre uma partida.
type Summary struct {
	WagersSettled      int
	Won                int
	Lost               int
	Pushed             int
	Deferred           int
	PredictionsSettled int
	PointsPaid         int64 // créditos aplicados (retornos e devoluções)
	PointsVoided       int64 // stakes perdidos
}

// Engine liquida todas as apostas e palpites pendentes de uma partida.
// Idempotente: só atua em linhas ainda PENDING, repetir a chamada para uma
// partida já liquidada não tem efeito.
type Engine struct {
	Log    *zap.Logger
	Ledger Ledger
}

func NewEngine(log *zap.Logger, l Ledger) *Engine {
	return &Engine{Log: log, Ledger: l}
}

// SettleMatch resolve cada aposta pendente contra as estatísticas finais e
// aciona a operação de ledger correspondente. Apostas Undetermined ficam
// pendentes para o próximo ciclo
func (e *Engine) SettleMatch(ctx context.Context, matchID string, st stats.MatchStatistics) (Summary, error) {
	var sum Summary

	wagers, err := e.Ledger.PendingWagers(ctx, matchID)
	if err != nil {
		return sum, err
	}

	for _, w := range wagers {
		key, err := outcome.Parse(w.OutcomeKey)
		res := Lost
		if err != nil {
			// Chave fora do vocabulário: default conservador de perda
			e.Log.Warn("unknown outcome key on wager",
				zap.String("wager_id", w.ID), zap.String("key", w.OutcomeKey))
		} else {
			res = Resolve(key, st)
		}

		switch res {
		case Undetermined:
			sum.Deferred++
			continue
		case Won:
			err = e.Ledger.SettleWon(ctx, w.ID)
			if err == nil {
				sum.Won++
				sum.PointsPaid += w.PotentialPayout
			}
		case Push:
			err = e.Ledger.SettlePush(ctx, w.ID)
			if err == nil {
				sum.Pushed++
				sum.PointsPaid += w.Stake
			}
		default:
			err = e.Ledger.SettleLost(ctx, w.ID)
			if err == nil {
				sum.Lost++
				sum.PointsVoided += w.Stake
			}
		}

		if err != nil {
			// Corrida com outra passada: a aposta saiu de PENDING no meio do
			// caminho, segue para a próxima
			if errors.Is(err, ledger.ErrWagerNotPending) {
				continue
			}
			return sum, err
		}
		sum.WagersSettled++

		e.Log.Info("wager settled",
			zap.String("wager_id", w.ID),
			zap.String("key", w.OutcomeKey),
			zap.String("result", res.String()))
	}

	preds, err := e.Ledger.PendingPredictions(ctx, matchID)
	if err != nil {
		return sum, err
	}
	for _, pr := range preds {
		correct := pr.Pick == st.Outcome
		if err := e.Ledger.SettlePrediction(ctx, pr.ID, correct); err != nil {
			if errors.Is(err, ledger.ErrWagerNotPending) {
				continue
			}
			return sum, err
		}
		sum.PredictionsSettled++
	}

	return sum, nil
}
