package catalog

import (
	"fmt"
	"sort"

	"github.com/radieske/fanbet-engine/pkg/odds"
	"github.com/radieske/fanbet-engine/pkg/outcome"
)

// Limites de linha por família. Linha acima do teto é ruído do bookmaker sem
// relevância para futebol e fica fora do catálogo.
const (
	maxGoalLine      = 10.5
	maxTeamGoalLine  = 7.5
	maxCornerLine    = 20.0
	maxCardLine      = 12.0
	maxExactScoreOps = 15
)

// Option é uma opção apostável dentro de um mercado exibível
type Option struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Market é um grupo nomeado de opções; nunca emitido vazio
type Market struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Build monta a lista ordenada de mercados apostáveis a partir do snapshot.
// Dado view puro: mesma entrada, mesma saída; nada é persistido.
//
// Regras de supressão durante o jogo:
//   - linha abaixo da contagem corrente da família some (resultado já decidido);
//   - placar exato impossível (abaixo do placar corrente) some;
//   - ambas marcam e primeiro gol somem após o primeiro gol da partida.
func Build(snap odds.Snapshot) []Market {
	keys := parseKeys(snap)
	totalGoals := snap.HomeScore + snap.AwayScore

	var out []Market

	out = appendMarket(out, "Match Result", pickOptions(keys, outcome.MatchResult, map[string]string{
		"home": snap.HomeTeam + " wins",
		"draw": "Draw",
		"away": snap.AwayTeam + " wins",
	}, []string{"home", "draw", "away"}))

	out = appendMarket(out, "Double Chance", pickOptions(keys, outcome.DoubleChance, map[string]string{
		"1x": snap.HomeTeam + " or draw",
		"x2": "Draw or " + snap.AwayTeam,
		"12": snap.HomeTeam + " or " + snap.AwayTeam,
	}, []string{"1x", "x2", "12"}))

	out = appendMarket(out, "Total Goals", lineOptions(keys, outcome.Total, maxGoalLine, float64(totalGoals)))

	if totalGoals == 0 {
		out = appendMarket(out, "Both Teams To Score", pickOptions(keys, outcome.BothScore, map[string]string{
			"yes": "Yes", "no": "No",
		}, []string{"yes", "no"}))
	}

	out = appendMarket(out, "Draw No Bet", sideOptions(keys, outcome.DrawNoBet, map[string]string{
		"home": snap.HomeTeam, "away": snap.AwayTeam,
	}, []string{"home", "away"}))

	if totalGoals == 0 {
		out = appendMarket(out, "First Goal", sideOptions(keys, outcome.FirstGoal, map[string]string{
			"home": snap.HomeTeam,
			"away": snap.AwayTeam,
			"none": "No goal",
		}, []string{"home", "away", "none"}))
	}

	out = appendMarket(out, "Handicap", handicapOptions(keys, snap.HomeTeam, snap.AwayTeam))
	out = appendMarket(out, "Exact Score", exactScoreOptions(keys, snap.HomeScore, snap.AwayScore))

	out = appendMarket(out, "Odd/Even Goals", pickOptions(keys, outcome.OddEven, map[string]string{
		"even": "Even", "odd": "Odd",
	}, []string{"even", "odd"}))

	out = appendMarket(out, snap.HomeTeam+" Total Goals", lineOptions(keys, outcome.HomeTotal, maxTeamGoalLine, float64(snap.HomeScore)))
	out = appendMarket(out, snap.AwayTeam+" Total Goals", lineOptions(keys, outcome.AwayTotal, maxTeamGoalLine, float64(snap.AwayScore)))

	// Escanteios e cartões correntes não fazem parte do snapshot; a supressão
	// por contagem só se aplica às famílias de gols.
	out = appendMarket(out, "Total Corners", lineOptions(keys, outcome.Corners, maxCornerLine, 0))
	out = appendMarket(out, snap.HomeTeam+" Corners", lineOptions(keys, outcome.CornersHome, maxCornerLine, 0))
	out = appendMarket(out, snap.AwayTeam+" Corners", lineOptions(keys, outcome.CornersAway, maxCornerLine, 0))

	out = appendMarket(out, "Total Cards", lineOptions(keys, outcome.Cards, maxCardLine, 0))
	out = appendMarket(out, snap.HomeTeam+" Cards", lineOptions(keys, outcome.CardsHome, maxCardLine, 0))
	out = appendMarket(out, snap.AwayTeam+" Cards", lineOptions(keys, outcome.CardsAway, maxCardLine, 0))

	out = appendMarket(out, "Penalty Awarded", pickOptions(keys, outcome.Penalty, map[string]string{
		"yes": "Yes", "no": "No",
	}, []string{"yes", "no"}))

	return out
}

// keyed carrega a chave parseada junto do preço do snapshot
type keyed struct {
	key   outcome.Key
	raw   string
	price float64
}

func parseKeys(snap odds.Snapshot) map[outcome.Family][]keyed {
	byFam := make(map[outcome.Family][]keyed)
	for raw, price := range snap.Prices {
		k, err := outcome.Parse(raw)
		if err != nil {
			continue // chave desconhecida no snapshot não entra no catálogo
		}
		byFam[k.Family] = append(byFam[k.Family], keyed{key: k, raw: raw, price: price})
	}
	return byFam
}

func appendMarket(out []Market, name string, opts []Option) []Market {
	if len(opts) == 0 {
		return out
	}
	return append(out, Market{Name: name, Options: opts})
}

// pickOptions monta opções de vocabulário fixo indexadas por Pick, na ordem dada
func pickOptions(keys map[outcome.Family][]keyed, fam outcome.Family, labels map[string]string, order []string) []Option {
	byPick := make(map[string]keyed)
	for _, k := range keys[fam] {
		byPick[k.key.Pick] = k
	}
	var opts []Option
	for _, pick := range order {
		if k, ok := byPick[pick]; ok {
			opts = append(opts, Option{Key: k.raw, Label: labels[pick], Price: k.price})
		}
	}
	return opts
}

// sideOptions é o análogo de pickOptions para famílias indexadas por Side
func sideOptions(keys map[outcome.Family][]keyed, fam outcome.Family, labels map[string]string, order []string) []Option {
	bySide := make(map[string]keyed)
	for _, k := range keys[fam] {
		bySide[k.key.Side] = k
	}
	var opts []Option
	for _, side := range order {
		if k, ok := bySide[side]; ok {
			opts = append(opts, Option{Key: k.raw, Label: labels[side], Price: k.price})
		}
	}
	return opts
}

// lineOptions monta opções over/under ordenadas por linha crescente,
// suprimindo linhas já decididas pela contagem corrente e acima do teto
func lineOptions(keys map[outcome.Family][]keyed, fam outcome.Family, maxLine, tally float64) []Option {
	var ks []keyed
	for _, k := range keys[fam] {
		if k.key.Line > maxLine {
			continue
		}
		if k.key.Line < tally {
			continue // linha já ultrapassada, resultado decidido
		}
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].key.Line != ks[j].key.Line {
			return ks[i].key.Line < ks[j].key.Line
		}
		return ks[i].key.Over && !ks[j].key.Over // Over antes de Under na mesma linha
	})
	var opts []Option
	for _, k := range ks {
		side := "Under"
		if k.key.Over {
			side = "Over"
		}
		opts = append(opts, Option{
			Key:   k.raw,
			Label: fmt.Sprintf("%s %s", side, formatLine(k.key.Line)),
			Price: k.price,
		})
	}
	return opts
}

func handicapOptions(keys map[outcome.Family][]keyed, home, away string) []Option {
	ks := append([]keyed(nil), keys[outcome.Handicap]...)
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].key.Side != ks[j].key.Side {
			return ks[i].key.Side == "home"
		}
		return ks[i].key.Line < ks[j].key.Line
	})
	var opts []Option
	for _, k := range ks {
		team := home
		if k.key.Side == "away" {
			team = away
		}
		opts = append(opts, Option{
			Key:   k.raw,
			Label: fmt.Sprintf("%s (%+g)", team, k.key.Line),
			Price: k.price,
		})
	}
	return opts
}

// exactScoreOptions suprime placares impossíveis frente ao placar corrente e
// limita a lista aos mais prováveis (menor preço primeiro)
func exactScoreOptions(keys map[outcome.Family][]keyed, homeScore, awayScore int) []Option {
	var ks []keyed
	for _, k := range keys[outcome.ExactScore] {
		if k.key.Home < homeScore || k.key.Away < awayScore {
			continue
		}
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].price < ks[j].price })
	if len(ks) > maxExactScoreOps {
		ks = ks[:maxExactScoreOps]
	}
	var opts []Option
	for _, k := range ks {
		opts = append(opts, Option{
			Key:   k.raw,
			Label: fmt.Sprintf("%d:%d", k.key.Home, k.key.Away),
			Price: k.price,
		})
	}
	return opts
}

func formatLine(line float64) string {
	return fmt.Sprintf("%g", line)
}
