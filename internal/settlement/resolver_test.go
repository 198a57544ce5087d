package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/fanbet-engine/internal/stats"
	"github.com/radieske/fanbet-engine/pkg/outcome"
)

// 2:1 para o mandante, ambos marcaram, 10 escanteios, 5 cartões, sem pênalti
func finalStats() stats.MatchStatistics {
	return stats.MatchStatistics{
		HomeScore:   2,
		AwayScore:   1,
		TotalGoals:  3,
		HomeCorners: 6,
		AwayCorners: 4,
		HomeCards:   2,
		AwayCards:   3,
		BothScored:  true,
		Outcome:     stats.OutcomeHome,
		FirstGoal:   stats.OutcomeHome,
	}
}

func resolve(t *testing.T, key string, st stats.MatchStatistics) Result {
	t.Helper()
	k, err := outcome.Parse(key)
	require.NoError(t, err)
	return Resolve(k, st)
}

func TestResolveMatchResult(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "home", st))
	assert.Equal(t, Lost, resolve(t, "draw", st))
	assert.Equal(t, Lost, resolve(t, "away", st))
}

func TestResolveExactScore(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "score_2-1", st))
	assert.Equal(t, Lost, resolve(t, "score_1-2", st))
}

func TestResolveTotalsHalfLine(t *testing.T) {
	st := finalStats() // 3 gols
	assert.Equal(t, Won, resolve(t, "total_over_2.5", st))
	assert.Equal(t, Lost, resolve(t, "total_under_2.5", st))
	assert.Equal(t, Lost, resolve(t, "total_over_3.5", st))
}

func TestResolveIntegerLinePush(t *testing.T) {
	st := finalStats() // 3 gols, exatamente na linha 3
	assert.Equal(t, Push, resolve(t, "total_over_3", st))
	assert.Equal(t, Push, resolve(t, "total_under_3", st))
	assert.Equal(t, Won, resolve(t, "total_over_2", st))
	assert.Equal(t, Lost, resolve(t, "total_under_2", st))
}

func TestResolvePerFamilyTotals(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "home_over_1.5", st))       // mandante fez 2
	assert.Equal(t, Lost, resolve(t, "away_over_1.5", st))      // visitante fez 1
	assert.Equal(t, Won, resolve(t, "corners_over_9.5", st))    // 10 escanteios
	assert.Equal(t, Push, resolve(t, "corners_over_10", st))    // linha inteira exata
	assert.Equal(t, Won, resolve(t, "corners_home_over_5.5", st))
	assert.Equal(t, Won, resolve(t, "cards_under_5.5", st))     // 5 cartões
	assert.Equal(t, Lost, resolve(t, "cards_away_under_2.5", st))
}

func TestResolveDoubleChance(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "dc_1x", st))
	assert.Equal(t, Lost, resolve(t, "dc_x2", st))
	assert.Equal(t, Won, resolve(t, "dc_12", st))
}

func TestResolveDrawNoBetPushOnDraw(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "dnb_home", st))
	assert.Equal(t, Lost, resolve(t, "dnb_away", st))

	st.HomeScore, st.AwayScore, st.TotalGoals = 1, 1, 2
	st.Outcome = stats.OutcomeDraw
	assert.Equal(t, Push, resolve(t, "dnb_home", st))
	assert.Equal(t, Push, resolve(t, "dnb_away", st))
}

func TestResolveHandicap(t *testing.T) {
	st := finalStats() // diferença +1 para o mandante
	assert.Equal(t, Won, resolve(t, "handicap_home_-0.5", st))
	assert.Equal(t, Lost, resolve(t, "handicap_home_-1.5", st))
	assert.Equal(t, Push, resolve(t, "handicap_home_-1", st)) // 1-1+0
	assert.Equal(t, Won, resolve(t, "handicap_away_1.5", st))
	assert.Equal(t, Push, resolve(t, "handicap_away_1", st))
	assert.Equal(t, Lost, resolve(t, "handicap_away_0.5", st))
}

func TestResolveBooleanFamilies(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "btts_yes", st))
	assert.Equal(t, Lost, resolve(t, "btts_no", st))
	assert.Equal(t, Won, resolve(t, "total_odd", st)) // 3 gols
	assert.Equal(t, Lost, resolve(t, "total_even", st))
	assert.Equal(t, Won, resolve(t, "penalty_no", st))
	assert.Equal(t, Lost, resolve(t, "penalty_yes", st))
}

func TestResolveFirstGoalUndeterminedWhenSideUnknown(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "first_goal_home", st))
	assert.Equal(t, Lost, resolve(t, "first_goal_away", st))

	st.FirstGoal = ""
	assert.Equal(t, Undetermined, resolve(t, "first_goal_home", st))
	assert.Equal(t, Undetermined, resolve(t, "first_goal_none", st))
}

func TestResolveLivePrefixTransparent(t *testing.T) {
	st := finalStats()
	assert.Equal(t, Won, resolve(t, "LIVE_home", st))
	assert.Equal(t, Won, resolve(t, "LIVE_total_over_2.5", st))
}
