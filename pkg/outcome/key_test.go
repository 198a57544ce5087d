package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FixedVocabulary(t *testing.T) {
	cases := map[string]Key{
		"home":            {Family: MatchResult, Pick: "home"},
		"draw":            {Family: MatchResult, Pick: "draw"},
		"away":            {Family: MatchResult, Pick: "away"},
		"dc_1x":           {Family: DoubleChance, Pick: "1x"},
		"dc_x2":           {Family: DoubleChance, Pick: "x2"},
		"dc_12":           {Family: DoubleChance, Pick: "12"},
		"btts_yes":        {Family: BothScore, Pick: "yes"},
		"btts_no":         {Family: BothScore, Pick: "no"},
		"dnb_home":        {Family: DrawNoBet, Side: "home"},
		"dnb_away":        {Family: DrawNoBet, Side: "away"},
		"first_goal_home": {Family: FirstGoal, Side: "home"},
		"first_goal_none": {Family: FirstGoal, Side: "none"},
		"penalty_yes":     {Family: Penalty, Pick: "yes"},
		"total_even":      {Family: OddEven, Pick: "even"},
		"total_odd":       {Family: OddEven, Pick: "odd"},
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
		assert.Equal(t, raw, got.String(), raw)
	}
}

func TestParse_OverUnderFamilies(t *testing.T) {
	k, err := Parse("total_over_2.5")
	require.NoError(t, err)
	assert.Equal(t, Total, k.Family)
	assert.True(t, k.Over)
	assert.Equal(t, 2.5, k.Line)
	assert.False(t, k.IntegerLine())

	k, err = Parse("total_under_3")
	require.NoError(t, err)
	assert.False(t, k.Over)
	assert.True(t, k.IntegerLine())

	// Prefixos por time têm precedência sobre a família genérica.
	k, err = Parse("corners_home_over_4.5")
	require.NoError(t, err)
	assert.Equal(t, CornersHome, k.Family)
	assert.Equal(t, "home", k.Side)

	k, err = Parse("cards_under_3.5")
	require.NoError(t, err)
	assert.Equal(t, Cards, k.Family)

	k, err = Parse("home_over_1.5")
	require.NoError(t, err)
	assert.Equal(t, HomeTotal, k.Family)
	assert.Equal(t, "home", k.Side)
}

func TestParse_Handicap(t *testing.T) {
	k, err := Parse("handicap_home_-1.5")
	require.NoError(t, err)
	assert.Equal(t, Handicap, k.Family)
	assert.Equal(t, "home", k.Side)
	assert.Equal(t, -1.5, k.Line)
	assert.Equal(t, "handicap_home_-1.5", k.String())

	k, err = Parse("handicap_away_+1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, k.Line)
	assert.True(t, k.IntegerLine())
}

func TestParse_ExactScore(t *testing.T) {
	k, err := Parse("score_2-1")
	require.NoError(t, err)
	assert.Equal(t, ExactScore, k.Family)
	assert.Equal(t, 2, k.Home)
	assert.Equal(t, 1, k.Away)
	assert.Equal(t, "score_2-1", k.String())

	_, err = Parse("score_x-1")
	assert.Error(t, err)
}

func TestParse_LivePrefix(t *testing.T) {
	k, err := Parse("LIVE_total_over_2.5")
	require.NoError(t, err)
	assert.Equal(t, Total, k.Family)
	assert.Equal(t, "total_over_2.5", k.String())
}

func TestParse_CommaDecimalLine(t *testing.T) {
	k, err := Parse("total_over_2,5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, k.Line)
}

func TestParse_Unknown(t *testing.T) {
	for _, raw := range []string{"", "asian_home_1.5", "total_over_", "goalscorer_messi", "dc_xx"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestString_RoundTrip(t *testing.T) {
	keys := []string{
		"home", "score_0-0", "total_over_0.5", "corners_away_under_6",
		"handicap_away_2.5", "dnb_home", "dc_12", "cards_over_4.5",
	}
	for _, raw := range keys {
		k, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, k.String(), raw)
	}
}
