package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/pkg/contracts/events"
)

func rawEvent(markets ...events.RawMarket) events.RawMarkets {
	return events.RawMarkets{
		MatchID:   "m-1",
		HomeTeam:  "Real Madrid",
		AwayTeam:  "Barcelona",
		KickoffAt: time.Now().Add(time.Hour),
		FetchedAt: time.Now(),
		Markets:   markets,
	}
}

func runner(name string, price float64) events.RawRunner {
	return events.RawRunner{Name: name, Open: true, Price: price}
}

func TestNormalizeMatchResult(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(events.RawMarket{
		Name: "1X2",
		Open: true,
		Runners: []events.RawRunner{
			runner("1", 1.85),
			runner("X", 3.40),
			runner("2", 4.20),
		},
	}))

	require.Equal(t, 1, snap.OpenMarkets)
	assert.Equal(t, 1.85, snap.Prices["home"])
	assert.Equal(t, 3.40, snap.Prices["draw"])
	assert.Equal(t, 4.20, snap.Prices["away"])
}

func TestNormalizePriceGuard(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(events.RawMarket{
		Name: "1X2",
		Open: true,
		Runners: []events.RawRunner{
			runner("1", 1.0),   // no limite inferior, descartado
			runner("X", 51.0),  // acima do teto
			runner("2", 2.10),
			{Name: "2", Open: false, Price: 2.05}, // suspenso
		},
	}))

	assert.Len(t, snap.Prices, 1)
	assert.Equal(t, 2.10, snap.Prices["away"])
}

func TestNormalizeClosedMarketIgnored(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(events.RawMarket{
		Name:    "1X2",
		Open:    false,
		Runners: []events.RawRunner{runner("1", 1.85)},
	}))

	assert.Empty(t, snap.Prices)
	assert.Zero(t, snap.OpenMarkets)
}

func TestNormalizeTotals(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(
		events.RawMarket{
			Name: "Total Goals",
			Open: true,
			Runners: []events.RawRunner{
				runner("Over (2.5)", 1.90),
				runner("Under (2.5)", 1.90),
				runner("Over (3)", 2.40),
			},
		},
		events.RawMarket{
			Name: "Total Goals - Home Team",
			Open: true,
			Runners: []events.RawRunner{
				runner("Over (1.5)", 1.70),
			},
		},
		events.RawMarket{
			Name: "Total Goals - Away Team",
			Open: true,
			Runners: []events.RawRunner{
				runner("Under (0,5)", 3.10), // vírgula decimal
			},
		},
	))

	assert.Equal(t, 1.90, snap.Prices["total_over_2.5"])
	assert.Equal(t, 1.90, snap.Prices["total_under_2.5"])
	assert.Equal(t, 2.40, snap.Prices["total_over_3"])
	assert.Equal(t, 1.70, snap.Prices["home_over_1.5"])
	assert.Equal(t, 3.10, snap.Prices["away_under_0.5"])
}

func TestNormalizeCornersAndCards(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(
		events.RawMarket{
			Name:    "Total Corners",
			Open:    true,
			Runners: []events.RawRunner{runner("Over (9.5)", 1.85)},
		},
		events.RawMarket{
			Name:    "Home Team Corners",
			Open:    true,
			Runners: []events.RawRunner{runner("Over (4.5)", 2.00)},
		},
		events.RawMarket{
			Name:    "Total Cards",
			Open:    true,
			Runners: []events.RawRunner{runner("Under (4.5)", 1.75)},
		},
		events.RawMarket{
			Name:    "Corners Handicap",
			Open:    true,
			Runners: []events.RawRunner{runner("1 (-2.5)", 1.90)},
		},
	))

	assert.Equal(t, 1.85, snap.Prices["corners_over_9.5"])
	assert.Equal(t, 2.00, snap.Prices["corners_home_over_4.5"])
	assert.Equal(t, 1.75, snap.Prices["cards_under_4.5"])
	assert.NotContains(t, snap.Prices, "handicap_home_-2.5")
}

func TestNormalizeHandicap(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(events.RawMarket{
		Name: "Handicap",
		Open: true,
		Runners: []events.RawRunner{
			runner("1 (-1.5)", 2.30),
			runner("2 (+1.5)", 1.60),
			runner("1 (0)", 1.95),
		},
	}))

	assert.Equal(t, 2.30, snap.Prices["handicap_home_-1.5"])
	assert.Equal(t, 1.60, snap.Prices["handicap_away_1.5"])
	assert.Equal(t, 1.95, snap.Prices["handicap_home_0"])
}

func TestNormalizeAsianHandicapSkipped(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(events.RawMarket{
		Name:    "Asian Handicap",
		Open:    true,
		Runners: []events.RawRunner{runner("1 (-0.25)", 1.90)},
	}))

	assert.Empty(t, snap.Prices)
}

func TestNormalizeExactScoreBeforeHalfSkip(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(
		events.RawMarket{
			Name: "Correct Score",
			Open: true,
			Runners: []events.RawRunner{
				runner("2:1", 9.50),
				runner("0:0", 7.00),
				runner("garbage", 5.00),
			},
		},
		events.RawMarket{
			Name:    "Correct Score - 1st Half",
			Open:    true,
			Runners: []events.RawRunner{runner("1:0", 4.50)},
		},
	))

	assert.Equal(t, 9.50, snap.Prices["score_2-1"])
	assert.Equal(t, 7.00, snap.Prices["score_0-0"])
	assert.Len(t, snap.Prices, 2)
}

func TestNormalizeOddEven(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(
		events.RawMarket{
			Name: "Odd/Even Total Goals",
			Open: true,
			Runners: []events.RawRunner{
				runner("Odd", 1.95),
				runner("Even", 1.85),
			},
		},
		events.RawMarket{
			Name:    "Odd/Even Corners",
			Open:    true,
			Runners: []events.RawRunner{runner("Odd", 1.90)},
		},
	))

	assert.Equal(t, 1.95, snap.Prices["total_odd"])
	assert.Equal(t, 1.85, snap.Prices["total_even"])
	assert.Len(t, snap.Prices, 2)
}

func TestNormalizeSideMarkets(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(
		events.RawMarket{
			Name: "Double Chance",
			Open: true,
			Runners: []events.RawRunner{
				runner("1X", 1.25),
				runner("X2", 1.60),
				runner("12", 1.30),
			},
		},
		events.RawMarket{
			Name: "Both Teams To Score",
			Open: true,
			Runners: []events.RawRunner{
				runner("Yes", 1.75),
				runner("No", 2.05),
			},
		},
		events.RawMarket{
			Name: "Draw No Bet",
			Open: true,
			Runners: []events.RawRunner{
				runner("1", 1.45),
				runner("2", 2.75),
			},
		},
		events.RawMarket{
			Name: "First Goal",
			Open: true,
			Runners: []events.RawRunner{
				runner("1", 1.70),
				runner("2", 2.60),
				runner("No Goal", 9.00),
			},
		},
		events.RawMarket{
			Name: "Penalty Awarded",
			Open: true,
			Runners: []events.RawRunner{
				runner("Yes", 3.50),
				runner("No", 1.28),
			},
		},
	))

	assert.Equal(t, 1.25, snap.Prices["dc_1x"])
	assert.Equal(t, 1.60, snap.Prices["dc_x2"])
	assert.Equal(t, 1.30, snap.Prices["dc_12"])
	assert.Equal(t, 1.75, snap.Prices["btts_yes"])
	assert.Equal(t, 2.05, snap.Prices["btts_no"])
	assert.Equal(t, 1.45, snap.Prices["dnb_home"])
	assert.Equal(t, 2.75, snap.Prices["dnb_away"])
	assert.Equal(t, 1.70, snap.Prices["first_goal_home"])
	assert.Equal(t, 2.60, snap.Prices["first_goal_away"])
	assert.Equal(t, 9.00, snap.Prices["first_goal_none"])
	assert.Equal(t, 3.50, snap.Prices["penalty_yes"])
	assert.Equal(t, 1.28, snap.Prices["penalty_no"])
	assert.Equal(t, 5, snap.OpenMarkets)
}

func TestNormalizeDeterministicUnderReordering(t *testing.T) {
	n := New(zap.NewNop())

	markets := []events.RawMarket{
		{Name: "1X2", Open: true, Runners: []events.RawRunner{
			runner("1", 1.85), runner("X", 3.40), runner("2", 4.20),
		}},
		{Name: "Total Goals", Open: true, Runners: []events.RawRunner{
			runner("Over 2.5", 1.90), runner("Under 2.5", 1.95),
		}},
		{Name: "Correct Score", Open: true, Runners: []events.RawRunner{
			runner("1:0", 7.50), runner("2:1", 9.00),
		}},
		{Name: "Handicap", Open: true, Runners: []events.RawRunner{
			runner("1 (-1.5)", 2.80), runner("2 (+1.5)", 1.45),
		}},
		{Name: "Both Teams To Score", Open: true, Runners: []events.RawRunner{
			runner("Yes", 1.70), runner("No", 2.10),
		}},
		{Name: "Total Corners", Open: true, Runners: []events.RawRunner{
			runner("Over 9.5", 1.80), runner("Under 9.5", 1.92),
		}},
	}

	base := n.Normalize(rawEvent(markets...))
	require.NotEmpty(t, base.Prices)

	// mesma lista em ordens diferentes produz o mesmo snapshot
	for shift := 1; shift < len(markets); shift++ {
		rotated := append(append([]events.RawMarket{}, markets[shift:]...), markets[:shift]...)
		snap := n.Normalize(rawEvent(rotated...))
		assert.Equal(t, base.Prices, snap.Prices, "rotation %d", shift)
		assert.Equal(t, base.OpenMarkets, snap.OpenMarkets, "rotation %d", shift)
	}

	reversed := make([]events.RawMarket, 0, len(markets))
	for i := len(markets) - 1; i >= 0; i-- {
		reversed = append(reversed, markets[i])
	}
	snap := n.Normalize(rawEvent(reversed...))
	assert.Equal(t, base.Prices, snap.Prices)
	assert.Equal(t, base.OpenMarkets, snap.OpenMarkets)
}

func TestNormalizeUnknownTotalDropped(t *testing.T) {
	n := New(zap.NewNop())

	snap := n.Normalize(rawEvent(events.RawMarket{
		Name:    "Total Shots On Target",
		Open:    true,
		Runners: []events.RawRunner{runner("Over (5.5)", 1.80)},
	}))

	assert.Empty(t, snap.Prices)
	assert.Zero(t, snap.OpenMarkets)
}
