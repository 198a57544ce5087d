package odds

import "time"

// Snapshot é o resultado do normalizador: mapeamento imutável de chaves
// canônicas de resultado para preços decimais, mais o contexto da partida.
// Cada ciclo do feed substitui o snapshot por inteiro; nunca é mutado in place.
type Snapshot struct {
	MatchID   string             `json:"match_id"`
	HomeTeam  string             `json:"home_team"`
	AwayTeam  string             `json:"away_team"`
	IsLive    bool               `json:"is_live"`
	HomeScore int                `json:"home_score"`
	AwayScore int                `json:"away_score"`
	Suspended bool               `json:"suspended"`
	Prices    map[string]float64 `json:"prices"`
	// OpenMarkets conta quantos mercados brutos contribuíram ao menos um preço.
	OpenMarkets int       `json:"open_markets"`
	KickoffAt   time.Time `json:"kickoff_at"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Price retorna o preço congelável de uma chave, se presente no snapshot.
func (s *Snapshot) Price(key string) (float64, bool) {
	p, ok := s.Prices[key]
	return p, ok
}
