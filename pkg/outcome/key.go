package outcome

import (
	"fmt"
	"strconv"
	"strings"
)

// Family identifica a família de mercado de uma chave de resultado.
type Family string

const (
	MatchResult  Family = "match_result" // home | draw | away
	ExactScore   Family = "exact_score"  // score_{h}-{a}
	Total        Family = "total"        // total de gols da partida
	HomeTotal    Family = "home"         // total individual do mandante
	AwayTotal    Family = "away"         // total individual do visitante
	Corners      Family = "corners"
	CornersHome  Family = "corners_home"
	CornersAway  Family = "corners_away"
	Cards        Family = "cards"
	CardsHome    Family = "cards_home"
	CardsAway    Family = "cards_away"
	Handicap     Family = "handicap"
	DoubleChance Family = "dc" // 1x | x2 | 12
	BothScore    Family = "btts"
	DrawNoBet    Family = "dnb"
	FirstGoal    Family = "first_goal" // home | away | none
	Penalty      Family = "penalty"    // yes | no
	OddEven      Family = "odd_even"   // even | odd
)

// livePrefix marca apostas criadas durante a partida; não altera a resolução.
const livePrefix = "LIVE_"

// WithLivePrefix marca a chave como aposta ao vivo. Idempotente.
func WithLivePrefix(raw string) string {
	if strings.HasPrefix(raw, livePrefix) {
		return raw
	}
	return livePrefix + raw
}

// IsLiveKey indica se a chave carrega o marcador de aposta ao vivo.
func IsLiveKey(raw string) bool { return strings.HasPrefix(raw, livePrefix) }

// TrimLivePrefix remove o marcador de aposta ao vivo, se presente.
func TrimLivePrefix(raw string) string { return strings.TrimPrefix(raw, livePrefix) }

// Key é a forma tipada de uma chave canônica de resultado (ex: "total_over_2.5").
// Substitui o dispatch por prefixo de string: cada família carrega apenas os
// campos que fazem sentido para ela.
type Key struct {
	Family Family
	Pick   string  // MatchResult/DoubleChance/BothScore/Penalty/OddEven
	Side   string  // Handicap/DrawNoBet/FirstGoal e totais por time: "home"|"away"|"none"
	Over   bool    // famílias over/under
	Line   float64 // famílias over/under e Handicap (com sinal)
	Home   int     // ExactScore
	Away   int     // ExactScore
}

// IntegerLine indica linha inteira (possibilidade de devolução quando a
// estatística cai exatamente na linha).
func (k Key) IntegerLine() bool { return k.Line == float64(int(k.Line)) }

// ouFamilies lista as famílias over/under aceitas, na ordem de precedência de
// parse (prefixos mais específicos primeiro).
var ouFamilies = []Family{
	CornersHome, CornersAway, Corners,
	CardsHome, CardsAway, Cards,
	HomeTotal, AwayTotal, Total,
}

// Parse converte a chave canônica em Key. Chaves desconhecidas retornam erro;
// o chamador decide a política (o resolver trata como perdida e loga anomalia).
func Parse(raw string) (Key, error) {
	s := strings.TrimPrefix(raw, livePrefix)

	switch s {
	case "home", "draw", "away":
		return Key{Family: MatchResult, Pick: s}, nil
	case "dc_1x", "dc_x2", "dc_12":
		return Key{Family: DoubleChance, Pick: strings.TrimPrefix(s, "dc_")}, nil
	case "btts_yes", "btts_no":
		return Key{Family: BothScore, Pick: strings.TrimPrefix(s, "btts_")}, nil
	case "dnb_home", "dnb_away":
		return Key{Family: DrawNoBet, Side: strings.TrimPrefix(s, "dnb_")}, nil
	case "first_goal_home", "first_goal_away", "first_goal_none":
		return Key{Family: FirstGoal, Side: strings.TrimPrefix(s, "first_goal_")}, nil
	case "penalty_yes", "penalty_no":
		return Key{Family: Penalty, Pick: strings.TrimPrefix(s, "penalty_")}, nil
	case "total_even", "total_odd":
		return Key{Family: OddEven, Pick: strings.TrimPrefix(s, "total_")}, nil
	}

	if rest, ok := strings.CutPrefix(s, "score_"); ok {
		h, a, ok := cutScore(rest)
		if !ok {
			return Key{}, fmt.Errorf("outcome: invalid exact score key %q", raw)
		}
		return Key{Family: ExactScore, Home: h, Away: a}, nil
	}

	for _, side := range []string{"home", "away"} {
		if rest, ok := strings.CutPrefix(s, "handicap_"+side+"_"); ok {
			line, err := parseLine(rest)
			if err != nil {
				return Key{}, fmt.Errorf("outcome: invalid handicap line in %q: %w", raw, err)
			}
			return Key{Family: Handicap, Side: side, Line: line}, nil
		}
	}

	for _, fam := range ouFamilies {
		for _, marker := range []string{"_over_", "_under_"} {
			rest, ok := strings.CutPrefix(s, string(fam)+marker)
			if !ok {
				continue
			}
			line, err := parseLine(rest)
			if err != nil {
				return Key{}, fmt.Errorf("outcome: invalid line in %q: %w", raw, err)
			}
			k := Key{Family: fam, Over: marker == "_over_", Line: line}
			switch fam {
			case HomeTotal, CornersHome, CardsHome:
				k.Side = "home"
			case AwayTotal, CornersAway, CardsAway:
				k.Side = "away"
			}
			return k, nil
		}
	}

	return Key{}, fmt.Errorf("outcome: unknown key %q", raw)
}

// String devolve a forma canônica da chave (inverso de Parse).
func (k Key) String() string {
	switch k.Family {
	case MatchResult:
		return k.Pick
	case ExactScore:
		return fmt.Sprintf("score_%d-%d", k.Home, k.Away)
	case DoubleChance, BothScore, Penalty:
		return string(k.Family) + "_" + k.Pick
	case OddEven:
		return "total_" + k.Pick
	case DrawNoBet, FirstGoal:
		return string(k.Family) + "_" + k.Side
	case Handicap:
		return "handicap_" + k.Side + "_" + formatLine(k.Line)
	default:
		marker := "_under_"
		if k.Over {
			marker = "_over_"
		}
		return string(k.Family) + marker + formatLine(k.Line)
	}
}

func cutScore(s string) (home, away int, ok bool) {
	hs, as, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(hs)
	a, err2 := strconv.Atoi(as)
	if err1 != nil || err2 != nil || h < 0 || a < 0 {
		return 0, 0, false
	}
	return h, a, true
}

func parseLine(s string) (float64, error) {
	// Alguns feeds usam vírgula decimal e sinal explícito de "+".
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimPrefix(s, "+")
	return strconv.ParseFloat(s, 64)
}

func formatLine(line float64) string {
	return strconv.FormatFloat(line, 'f', -1, 64)
}
