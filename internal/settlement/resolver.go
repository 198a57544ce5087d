package settlement

import (
	"github.com/radieske/fanbet-engine/internal/stats"
	"github.com/radieske/fanbet-engine/pkg/outcome"
)

// Result é o desfecho da resolução de uma chave contra as estatísticas finais.
type Result int

const (
	Lost Result = iota
	Won
	Push
	// Undetermined: a estatística necessária ainda não está disponível.
	// A aposta fica PENDING e é retentada no próximo ciclo do scheduler.
	Undetermined
)

func (r Result) String() string {
	switch r {
	case Won:
		return "won"
	case Push:
		return "push"
	case Undetermined:
		return "undetermined"
	default:
		return "lost"
	}
}

// Resolve classifica uma chave canônica contra as estatísticas da partida.
// Função pura, sem efeitos; chave desconhecida resolve como perdida (o
// chamador loga a anomalia via ok=false).
func Resolve(key outcome.Key, st stats.MatchStatistics) Result {
	switch key.Family {
	case outcome.MatchResult:
		return boolResult(st.Outcome == key.Pick)

	case outcome.ExactScore:
		return boolResult(st.HomeScore == key.Home && st.AwayScore == key.Away)

	case outcome.Total:
		return overUnder(key, st.TotalGoals)
	case outcome.HomeTotal:
		return overUnder(key, st.HomeScore)
	case outcome.AwayTotal:
		return overUnder(key, st.AwayScore)
	case outcome.Corners:
		return overUnder(key, st.TotalCorners())
	case outcome.CornersHome:
		return overUnder(key, st.HomeCorners)
	case outcome.CornersAway:
		return overUnder(key, st.AwayCorners)
	case outcome.Cards:
		return overUnder(key, st.TotalCards())
	case outcome.CardsHome:
		return overUnder(key, st.HomeCards)
	case outcome.CardsAway:
		return overUnder(key, st.AwayCards)

	case outcome.DoubleChance:
		switch key.Pick {
		case "1x":
			return boolResult(st.Outcome == stats.OutcomeHome || st.Outcome == stats.OutcomeDraw)
		case "x2":
			return boolResult(st.Outcome == stats.OutcomeAway || st.Outcome == stats.OutcomeDraw)
		case "12":
			return boolResult(st.Outcome != stats.OutcomeDraw)
		}
		return Lost

	case outcome.BothScore:
		return boolResult(st.BothScored == (key.Pick == "yes"))

	case outcome.DrawNoBet:
		// Empate devolve o stake
		if st.Outcome == stats.OutcomeDraw {
			return Push
		}
		return boolResult(st.Outcome == key.Side)

	case outcome.Handicap:
		return handicap(key, st)

	case outcome.FirstGoal:
		if st.FirstGoal == "" {
			return Undetermined
		}
		return boolResult(st.FirstGoal == key.Side)

	case outcome.Penalty:
		return boolResult(st.HasPenalty == (key.Pick == "yes"))

	case outcome.OddEven:
		even := st.TotalGoals%2 == 0
		return boolResult(even == (key.Pick == "even"))
	}

	return Lost
}

func boolResult(won bool) Result {
	if won {
		return Won
	}
	return Lost
}

// overUnder compara a estatística da família com a linha. Linha inteira com a
// estatística exatamente na linha devolve o stake; linha quebrada nunca empata
func overUnder(key outcome.Key, value int) Result {
	v := float64(value)
	if key.IntegerLine() && v == key.Line {
		return Push
	}
	if key.Over {
		return boolResult(v > key.Line)
	}
	return boolResult(v < key.Line)
}

// handicap aplica a linha ao placar do lado apostado; zero devolve o stake
func handicap(key outcome.Key, st stats.MatchStatistics) Result {
	var diff float64
	if key.Side == "home" {
		diff = float64(st.HomeScore-st.AwayScore) + key.Line
	} else {
		diff = float64(st.AwayScore-st.HomeScore) + key.Line
	}
	switch {
	case diff > 0:
		return Won
	case diff == 0:
		return Push
	default:
		return Lost
	}
}
