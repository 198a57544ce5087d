package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complete() MatchStatistics {
	return MatchStatistics{
		HomeScore: 2, AwayScore: 1, TotalGoals: 3,
		HomeCorners: 6, AwayCorners: 4,
		HomeCards: 2, AwayCards: 3,
		BothScored: true, Outcome: OutcomeHome,
	}
}

func TestValidate_Complete(t *testing.T) {
	require.NoError(t, complete().Validate())
}

func TestValidate_Incomplete(t *testing.T) {
	cases := map[string]func(*MatchStatistics){
		"total mismatch":     func(s *MatchStatistics) { s.TotalGoals = 5 },
		"wrong outcome":      func(s *MatchStatistics) { s.Outcome = OutcomeAway },
		"both_scored flag":   func(s *MatchStatistics) { s.BothScored = false },
		"zero corners":       func(s *MatchStatistics) { s.HomeCorners, s.AwayCorners = 0, 0 },
		"implausible corner": func(s *MatchStatistics) { s.HomeCorners, s.AwayCorners = 1, 0 },
		"negative score":     func(s *MatchStatistics) { s.HomeScore = -1 },
	}
	for name, mutate := range cases {
		st := complete()
		mutate(&st)
		err := st.Validate()
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrIncomplete, name)
	}
}

func TestDeriveFirstGoal(t *testing.T) {
	st := MatchStatistics{HomeScore: 0, AwayScore: 0}
	st.DeriveFirstGoal()
	assert.Equal(t, "none", st.FirstGoal)

	st = MatchStatistics{HomeScore: 2, AwayScore: 0}
	st.DeriveFirstGoal()
	assert.Equal(t, OutcomeHome, st.FirstGoal)

	st = MatchStatistics{HomeScore: 0, AwayScore: 1}
	st.DeriveFirstGoal()
	assert.Equal(t, OutcomeAway, st.FirstGoal)

	// Ambos marcaram: sem timeline não dá pra saber, campo fica vazio.
	st = MatchStatistics{HomeScore: 1, AwayScore: 1}
	st.DeriveFirstGoal()
	assert.Empty(t, st.FirstGoal)

	// Valor vindo do feed não é sobrescrito.
	st = MatchStatistics{HomeScore: 2, AwayScore: 0, FirstGoal: OutcomeAway}
	st.DeriveFirstGoal()
	assert.Equal(t, OutcomeAway, st.FirstGoal)
}
