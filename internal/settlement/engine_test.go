package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/ledger"
)

// fakeLedger registra as operações de liquidação aplicadas
type fakeLedger struct {
	wagers      []ledger.Wager
	predictions []ledger.Prediction
	won, lost   []string
	pushed      []string
	settled     map[string]bool // predictionID -> correct
}

func (f *fakeLedger) PendingWagers(ctx context.Context, matchID string) ([]ledger.Wager, error) {
	return f.wagers, nil
}

func (f *fakeLedger) PendingPredictions(ctx context.Context, matchID string) ([]ledger.Prediction, error) {
	return f.predictions, nil
}

func (f *fakeLedger) SettleWon(ctx context.Context, id string) error {
	f.won = append(f.won, id)
	return nil
}

func (f *fakeLedger) SettleLost(ctx context.Context, id string) error {
	f.lost = append(f.lost, id)
	return nil
}

func (f *fakeLedger) SettlePush(ctx context.Context, id string) error {
	f.pushed = append(f.pushed, id)
	return nil
}

func (f *fakeLedger) SettlePrediction(ctx context.Context, id string, correct bool) error {
	if f.settled == nil {
		f.settled = make(map[string]bool)
	}
	f.settled[id] = correct
	return nil
}

func TestSettleMatchDrivesLedger(t *testing.T) {
	fl := &fakeLedger{
		wagers: []ledger.Wager{
			{ID: "w-won", OutcomeKey: "home", Stake: 10, PotentialPayout: 18},
			{ID: "w-lost", OutcomeKey: "away", Stake: 5, PotentialPayout: 20},
			{ID: "w-push", OutcomeKey: "total_over_3", Stake: 8, PotentialPayout: 15},
			{ID: "w-unknown", OutcomeKey: "asian_home_0.25", Stake: 3, PotentialPayout: 6},
		},
		predictions: []ledger.Prediction{
			{ID: "p-right", Pick: "home"},
			{ID: "p-wrong", Pick: "away"},
		},
	}
	e := NewEngine(zap.NewNop(), fl)

	sum, err := e.SettleMatch(context.Background(), "m1", finalStats())
	require.NoError(t, err)

	assert.Equal(t, []string{"w-won"}, fl.won)
	// chave desconhecida resolve como perdida
	assert.Equal(t, []string{"w-lost", "w-unknown"}, fl.lost)
	assert.Equal(t, []string{"w-push"}, fl.pushed)

	assert.Equal(t, 4, sum.WagersSettled)
	assert.Equal(t, 1, sum.Won)
	assert.Equal(t, 2, sum.Lost)
	assert.Equal(t, 1, sum.Pushed)
	assert.Equal(t, int64(18+8), sum.PointsPaid) // retorno da vitória + devolução do push
	assert.Equal(t, int64(5+3), sum.PointsVoided)

	assert.Equal(t, map[string]bool{"p-right": true, "p-wrong": false}, fl.settled)
	assert.Equal(t, 2, sum.PredictionsSettled)
}

func TestSettleMatchDefersUndeterminedFirstGoal(t *testing.T) {
	fl := &fakeLedger{
		wagers: []ledger.Wager{
			{ID: "w-fg", OutcomeKey: "first_goal_home", Stake: 10, PotentialPayout: 17},
		},
	}
	e := NewEngine(zap.NewNop(), fl)

	st := finalStats()
	st.FirstGoal = ""
	sum, err := e.SettleMatch(context.Background(), "m1", st)
	require.NoError(t, err)

	assert.Empty(t, fl.won)
	assert.Empty(t, fl.lost)
	assert.Empty(t, fl.pushed)
	assert.Equal(t, 1, sum.Deferred)
	assert.Zero(t, sum.WagersSettled)
}
