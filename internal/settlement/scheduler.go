package settlement

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/ledger"
	sharedkafka "github.com/radieske/fanbet-engine/internal/shared/kafka"
	"github.com/radieske/fanbet-engine/internal/stats"
	"github.com/radieske/fanbet-engine/pkg/contracts/events"
)

// StatsSource é a fonte de partidas encerradas e estatísticas finais.
type StatsSource interface {
	FinishedMatches(ctx context.Context) ([]stats.FinishedMatch, error)
	MatchStatistics(ctx context.Context, matchID string) (stats.MatchStatistics, error)
}

// Marks é o registro persistido de partidas já liquidadas.
type Marks interface {
	IsSettled(ctx context.Context, matchID string) (bool, error)
	HasPending(ctx context.Context, matchID string) (bool, error)
	MarkSettled(ctx context.Context, mark ledger.SettledMark) error
	ApplyIDMap(ctx context.Context, toID string) (int64, error)
}

// Scheduler roda a liquidação em ciclos periódicos: lista partidas
// encerradas, pula as já marcadas ou sem pendências, valida as estatísticas
// e aciona o engine. Estatística implausível deixa a partida para o próximo
// ciclo em vez de liquidar em cima de dados errados.
type Scheduler struct {
	Log      *zap.Logger
	Stats    StatsSource
	Marks    Marks
	Engine   *Engine
	Notifier *sharedkafka.Writer // tópico settlement_completed; opcional
	Interval time.Duration

	OnCycle   func()       // métricas
	OnSettled func()       // métricas
	OnError   func(string) // métricas por fase
}

// Run bloqueia executando ciclos até o contexto encerrar. O primeiro ciclo
// roda imediatamente
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	if s.OnCycle != nil {
		s.OnCycle()
	}

	finished, err := s.Stats.FinishedMatches(ctx)
	if err != nil {
		s.Log.Warn("finished matches fetch failed", zap.Error(err))
		if s.OnError != nil {
			s.OnError("fetch")
		}
		return
	}

	for _, fm := range finished {
		if err := s.settleOne(ctx, fm); err != nil {
			s.Log.Error("settlement failed", zap.String("match_id", fm.MatchID), zap.Error(err))
			if s.OnError != nil {
				s.OnError("settle")
			}
		}
	}
}

func (s *Scheduler) settleOne(ctx context.Context, fm stats.FinishedMatch) error {
	settled, err := s.Marks.IsSettled(ctx, fm.MatchID)
	if err != nil {
		return err
	}
	if settled {
		return nil
	}

	// Puxa apostas órfãs de ids antigos mapeados pelo reparo do operador
	if moved, err := s.Marks.ApplyIDMap(ctx, fm.MatchID); err != nil {
		return err
	} else if moved > 0 {
		s.Log.Info("repointed orphaned entries via id map",
			zap.String("match_id", fm.MatchID), zap.Int64("moved", moved))
	}

	pending, err := s.Marks.HasPending(ctx, fm.MatchID)
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}

	st, err := s.Stats.MatchStatistics(ctx, fm.MatchID)
	if err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		// Feed de resultados ainda incompleto; tenta de novo no próximo ciclo
		s.Log.Info("statistics not ready, deferring",
			zap.String("match_id", fm.MatchID), zap.Error(err))
		return nil
	}
	st.DeriveFirstGoal()

	sum, err := s.Engine.SettleMatch(ctx, fm.MatchID, st)
	if err != nil {
		return err
	}
	if sum.WagersSettled == 0 && sum.PredictionsSettled == 0 {
		// Nada liquidado (tudo deferred); não marca, retenta depois
		return nil
	}

	if err := s.Marks.MarkSettled(ctx, ledger.SettledMark{
		MatchID:       fm.MatchID,
		WagersSettled: sum.WagersSettled,
		SettledAt:     time.Now().UTC(),
	}); err != nil {
		return err
	}
	if s.OnSettled != nil {
		s.OnSettled()
	}

	s.Log.Info("match settled",
		zap.String("match_id", fm.MatchID),
		zap.Int("wagers", sum.WagersSettled),
		zap.Int("deferred", sum.Deferred),
		zap.Int("predictions", sum.PredictionsSettled),
		zap.Int64("points_paid", sum.PointsPaid),
		zap.Int64("points_voided", sum.PointsVoided))

	s.notify(ctx, fm, st, sum)
	return nil
}

// notify publica o resumo da liquidação para o operador. Falha de publicação
// não desfaz a liquidação, só loga
func (s *Scheduler) notify(ctx context.Context, fm stats.FinishedMatch, st stats.MatchStatistics, sum Summary) {
	if s.Notifier == nil {
		return
	}
	ev := events.SettlementCompleted{
		MatchID:            fm.MatchID,
		HomeTeam:           fm.HomeTeam,
		AwayTeam:           fm.AwayTeam,
		HomeScore:          st.HomeScore,
		AwayScore:          st.AwayScore,
		Outcome:            st.Outcome,
		WagersSettled:      sum.WagersSettled,
		WagersWon:          sum.Won,
		WagersLost:         sum.Lost,
		WagersPushed:       sum.Pushed,
		PredictionsSettled: sum.PredictionsSettled,
		PointsPaid:         sum.PointsPaid,
		PointsVoided:       sum.PointsVoided,
		Ts:                 time.Now().UTC(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := sharedkafka.WriteJSON(ctx, s.Notifier, fm.MatchID, b); err != nil {
		s.Log.Warn("settlement notification failed", zap.Error(err))
	}
}
