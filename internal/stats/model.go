package stats

import (
	"errors"
	"fmt"
	"time"
)

// Resultado 1x2 de uma partida encerrada.
const (
	OutcomeHome = "home"
	OutcomeDraw = "draw"
	OutcomeAway = "away"
)

// MatchStatistics é o snapshot final de uma partida, fornecido pelo feed de
// resultados. É tratado como entrada atômica da liquidação: ou o snapshot
// inteiro é válido, ou a partida fica para o próximo ciclo.
type MatchStatistics struct {
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	TotalGoals  int    `json:"total_goals"`
	HomeCorners int    `json:"home_corners"`
	AwayCorners int    `json:"away_corners"`
	HomeCards   int    `json:"home_cards"`
	AwayCards   int    `json:"away_cards"`
	BothScored  bool   `json:"both_scored"`
	Outcome     string `json:"outcome"` // home | draw | away
	HasPenalty  bool   `json:"has_penalty"`
	// FirstGoal: "home" | "away" | "none" | "" quando o feed não conseguiu
	// determinar. Vazio deixa apostas de primeiro gol pendentes.
	FirstGoal string `json:"first_goal,omitempty"`
}

func (s MatchStatistics) TotalCorners() int { return s.HomeCorners + s.AwayCorners }
func (s MatchStatistics) TotalCards() int   { return s.HomeCards + s.AwayCards }

// ErrIncomplete indica snapshot implausível ou parcialmente populado;
// a liquidação deve ser adiada, nunca aplicada em cima de dados errados.
var ErrIncomplete = errors.New("match statistics incomplete")

// Validate confere a consistência interna do snapshot. O feed de resultados
// atualiza em lotes, então logo após o fim da partida é comum chegar placar
// sem as sub-estatísticas.
func (s MatchStatistics) Validate() error {
	if s.HomeScore < 0 || s.AwayScore < 0 {
		return fmt.Errorf("%w: negative score %d:%d", ErrIncomplete, s.HomeScore, s.AwayScore)
	}
	if expected := s.HomeScore + s.AwayScore; s.TotalGoals != expected {
		return fmt.Errorf("%w: total_goals=%d but score adds to %d", ErrIncomplete, s.TotalGoals, expected)
	}
	switch {
	case s.HomeScore > s.AwayScore && s.Outcome != OutcomeHome,
		s.AwayScore > s.HomeScore && s.Outcome != OutcomeAway,
		s.HomeScore == s.AwayScore && s.Outcome != OutcomeDraw:
		return fmt.Errorf("%w: outcome %q inconsistent with score %d:%d", ErrIncomplete, s.Outcome, s.HomeScore, s.AwayScore)
	}
	if s.BothScored != (s.HomeScore > 0 && s.AwayScore > 0) {
		return fmt.Errorf("%w: both_scored flag inconsistent with score", ErrIncomplete)
	}
	// Heurística de completude: jogo de futebol sem escanteios é sinal de
	// sub-estatísticas ainda não populadas no upstream.
	if s.TotalGoals > 0 && s.TotalCorners() == 0 {
		return fmt.Errorf("%w: goals present but zero corners", ErrIncomplete)
	}
	if s.TotalCorners() < 2 {
		return fmt.Errorf("%w: implausible corner count %d", ErrIncomplete, s.TotalCorners())
	}
	return nil
}

// DeriveFirstGoal resolve o lado do primeiro gol nos casos que não dependem
// de timeline: 0x0 e jogos onde só um time marcou. Quando ambos marcaram a
// resposta depende do feed e o campo fica como está.
func (s *MatchStatistics) DeriveFirstGoal() {
	if s.FirstGoal != "" {
		return
	}
	switch {
	case s.HomeScore == 0 && s.AwayScore == 0:
		s.FirstGoal = "none"
	case s.HomeScore > 0 && s.AwayScore == 0:
		s.FirstGoal = OutcomeHome
	case s.AwayScore > 0 && s.HomeScore == 0:
		s.FirstGoal = OutcomeAway
	}
}

// FinishedMatch é um item da listagem de partidas encerradas do feed.
type FinishedMatch struct {
	MatchID    string    `json:"match_id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	FinishedAt time.Time `json:"finished_at"`
}
