package normalizer

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/pkg/contracts/events"
	"github.com/radieske/fanbet-engine/pkg/odds"
	"github.com/radieske/fanbet-engine/pkg/outcome"
)

// Limites de sanidade para preços do bookmaker. Preço fora da faixa costuma
// ser placeholder ou erro de precificação do upstream, nunca vale aceitar.
const (
	minPrice = 1.0
	maxPrice = 50.0
)

// Normalizer reduz a listagem bruta de mercados do bookmaker (nomes em texto
// livre, rotulagem inconsistente) ao vocabulário canônico de chaves de
// resultado. Função pura dos rótulos de entrada: mesma entrada, mesmo snapshot.
type Normalizer struct {
	Log *zap.Logger
}

func New(log *zap.Logger) *Normalizer { return &Normalizer{Log: log} }

// Normalize aplica os filtros de família na ordem de precedência; o primeiro
// filtro que reconhece o mercado consome ele, mercados não reconhecidos são
// descartados com log. Runners suspensos ou com preço fora da faixa são
// ignorados individualmente.
func (n *Normalizer) Normalize(ev events.RawMarkets) odds.Snapshot {
	snap := odds.Snapshot{
		MatchID:   ev.MatchID,
		HomeTeam:  ev.HomeTeam,
		AwayTeam:  ev.AwayTeam,
		IsLive:    ev.IsLive,
		HomeScore: ev.HomeScore,
		AwayScore: ev.AwayScore,
		Suspended: ev.Suspended,
		Prices:    make(map[string]float64),
		KickoffAt: ev.KickoffAt,
		FetchedAt: ev.FetchedAt,
	}

	for _, m := range ev.Markets {
		if !m.Open {
			continue
		}
		if n.normalizeMarket(m, snap.Prices) {
			snap.OpenMarkets++
		}
	}

	return snap
}

// normalizeMarket roteia um mercado bruto para a família certa.
// Retorna true se o mercado contribuiu ao menos um preço utilizável.
func (n *Normalizer) normalizeMarket(m events.RawMarket, prices map[string]float64) bool {
	mn := strings.ToLower(m.Name)
	before := len(prices)

	switch {
	// Ponto de atenção na precedência: placar exato e par/ímpar precisam vir
	// ANTES do skip de meio-tempo/exóticos e do filtro genérico de totais.
	case strings.Contains(mn, "correct score") && !strings.Contains(mn, "half"):
		n.exactScore(m.Runners, prices)

	case strings.Contains(mn, "odd") && strings.Contains(mn, "even") &&
		!strings.Contains(mn, "half") && !strings.Contains(mn, "corner") && !strings.Contains(mn, "card"):
		n.oddEven(m.Runners, prices)

	// Meio-tempo e recortes por período ficam de fora do catálogo.
	case strings.Contains(mn, "half") || strings.Contains(mn, "1st") || strings.Contains(mn, "2nd"):
		return false

	case strings.Contains(mn, "1x2") || mn == "match result" || mn == "full time result":
		n.matchResult(m.Runners, prices)

	case strings.Contains(mn, "double chance") && !strings.Contains(mn, "corner") && !strings.Contains(mn, "card"):
		n.doubleChance(m.Runners, prices)

	case strings.Contains(mn, "both") && strings.Contains(mn, "score"):
		n.yesNo(m.Runners, prices, outcome.Key{Family: outcome.BothScore, Pick: "yes"}, outcome.Key{Family: outcome.BothScore, Pick: "no"})

	case strings.Contains(mn, "draw no bet"):
		n.drawNoBet(m.Runners, prices)

	case strings.Contains(mn, "first goal") && !strings.Contains(mn, "how"):
		n.firstGoal(m.Runners, prices)

	case strings.Contains(mn, "penalty") && !strings.Contains(mn, "shootout") && !strings.Contains(mn, "team"):
		n.yesNo(m.Runners, prices, outcome.Key{Family: outcome.Penalty, Pick: "yes"}, outcome.Key{Family: outcome.Penalty, Pick: "no"})

	case strings.Contains(mn, "corner"):
		if containsAny(mn, "which", "handicap", "double", "odd", "exact", "race") {
			return false
		}
		n.overUnder(m.Runners, prices, cornersFamily(mn))

	case strings.Contains(mn, "card") || (strings.Contains(mn, "yellow") && strings.Contains(mn, "total")):
		if containsAny(mn, "which", "handicap", "odd", "exact", "player") {
			return false
		}
		n.overUnder(m.Runners, prices, cardsFamily(mn))

	case strings.Contains(mn, "handicap") && !strings.Contains(mn, "asian"):
		n.handicap(m.Runners, prices)

	case strings.Contains(mn, "total") && strings.Contains(mn, "home") && !containsAny(mn, "shots", "fouls", "offsides", "throw"):
		n.overUnder(m.Runners, prices, outcome.HomeTotal)

	case strings.Contains(mn, "total") && strings.Contains(mn, "away") && !containsAny(mn, "shots", "fouls", "offsides", "throw"):
		n.overUnder(m.Runners, prices, outcome.AwayTotal)

	case mn == "total" || mn == "total goals" || mn == "match total":
		n.overUnder(m.Runners, prices, outcome.Total)

	case strings.Contains(mn, "total"):
		// Total que não caiu em nenhum filtro acima: loga e descarta, não
		// adivinha família.
		n.Log.Debug("skipped unknown total market", zap.String("market", m.Name))
		return false

	default:
		n.Log.Debug("dropped unrecognized market", zap.String("market", m.Name))
		return false
	}

	return len(prices) > before
}

// usable aplica a guarda de qualidade por runner.
func usable(r events.RawRunner) bool {
	return r.Open && r.Price > minPrice && r.Price <= maxPrice
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func cornersFamily(mn string) outcome.Family {
	switch {
	case strings.Contains(mn, "home"):
		return outcome.CornersHome
	case strings.Contains(mn, "away"):
		return outcome.CornersAway
	default:
		return outcome.Corners
	}
}

func cardsFamily(mn string) outcome.Family {
	switch {
	case strings.Contains(mn, "home"):
		return outcome.CardsHome
	case strings.Contains(mn, "away"):
		return outcome.CardsAway
	default:
		return outcome.Cards
	}
}

func (n *Normalizer) matchResult(runners []events.RawRunner, prices map[string]float64) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		switch strings.TrimSpace(r.Name) {
		case "1":
			prices["home"] = r.Price
		case "X", "x":
			prices["draw"] = r.Price
		case "2":
			prices["away"] = r.Price
		}
	}
}

func (n *Normalizer) doubleChance(runners []events.RawRunner, prices map[string]float64) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(r.Name)) {
		case "1X":
			prices["dc_1x"] = r.Price
		case "X2":
			prices["dc_x2"] = r.Price
		case "12":
			prices["dc_12"] = r.Price
		}
	}
}

func (n *Normalizer) yesNo(runners []events.RawRunner, prices map[string]float64, yes, no outcome.Key) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(r.Name)) {
		case "yes":
			prices[yes.String()] = r.Price
		case "no":
			prices[no.String()] = r.Price
		}
	}
}

func (n *Normalizer) drawNoBet(runners []events.RawRunner, prices map[string]float64) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		switch strings.TrimSpace(r.Name) {
		case "1":
			prices["dnb_home"] = r.Price
		case "2":
			prices["dnb_away"] = r.Price
		}
	}
}

func (n *Normalizer) firstGoal(runners []events.RawRunner, prices map[string]float64) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		rn := strings.ToLower(strings.TrimSpace(r.Name))
		switch {
		case rn == "1":
			prices["first_goal_home"] = r.Price
		case rn == "2":
			prices["first_goal_away"] = r.Price
		case strings.Contains(rn, "no goal"):
			prices["first_goal_none"] = r.Price
		}
	}
}

func (n *Normalizer) oddEven(runners []events.RawRunner, prices map[string]float64) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(r.Name)) {
		case "even":
			prices["total_even"] = r.Price
		case "odd":
			prices["total_odd"] = r.Price
		}
	}
}

// exactScore aceita runners "H:A" com ambos os lados numéricos.
func (n *Normalizer) exactScore(runners []events.RawRunner, prices map[string]float64) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		hs, as, ok := strings.Cut(strings.TrimSpace(r.Name), ":")
		if !ok {
			continue
		}
		h, err1 := strconv.Atoi(strings.TrimSpace(hs))
		a, err2 := strconv.Atoi(strings.TrimSpace(as))
		if err1 != nil || err2 != nil || h < 0 || a < 0 {
			continue
		}
		k := outcome.Key{Family: outcome.ExactScore, Home: h, Away: a}
		prices[k.String()] = r.Price
	}
}

// overUnder extrai a linha numérica de runners "Over (2.5)" / "Under (2.5)".
func (n *Normalizer) overUnder(runners []events.RawRunner, prices map[string]float64, fam outcome.Family) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		rn := r.Name
		var over bool
		switch {
		case strings.Contains(rn, "Over"):
			over = true
			rn = strings.Replace(rn, "Over", "", 1)
		case strings.Contains(rn, "Under"):
			rn = strings.Replace(rn, "Under", "", 1)
		default:
			continue
		}
		line, err := parseRunnerLine(rn)
		if err != nil {
			n.Log.Debug("unparseable over/under line", zap.String("runner", r.Name))
			continue
		}
		k := outcome.Key{Family: fam, Over: over, Line: line}
		switch fam {
		case outcome.HomeTotal, outcome.CornersHome, outcome.CardsHome:
			k.Side = "home"
		case outcome.AwayTotal, outcome.CornersAway, outcome.CardsAway:
			k.Side = "away"
		}
		prices[k.String()] = r.Price
	}
}

// handicap divide runners "1 (-1.5)" / "2 (+1.5)" pelo lado da partida.
func (n *Normalizer) handicap(runners []events.RawRunner, prices map[string]float64) {
	for _, r := range runners {
		if !usable(r) {
			continue
		}
		rn := strings.TrimSpace(r.Name)
		var side string
		switch {
		case strings.HasPrefix(rn, "1"):
			side = "home"
		case strings.HasPrefix(rn, "2"):
			side = "away"
		default:
			continue
		}
		line, err := parseRunnerLine(rn[1:])
		if err != nil {
			n.Log.Debug("unparseable handicap line", zap.String("runner", r.Name))
			continue
		}
		k := outcome.Key{Family: outcome.Handicap, Side: side, Line: line}
		prices[k.String()] = r.Price
	}
}

// parseRunnerLine limpa parênteses e normaliza vírgula decimal antes do parse.
func parseRunnerLine(s string) (float64, error) {
	s = strings.NewReplacer("(", "", ")", "", ",", ".").Replace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	return strconv.ParseFloat(s, 64)
}
