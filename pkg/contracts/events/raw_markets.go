package events

import "time"

// RawRunner é uma seleção precificada dentro de um mercado bruto do bookmaker.
type RawRunner struct {
	Name  string  `json:"name"`
	Open  bool    `json:"open"`
	Price float64 `json:"price"`
}

// RawMarket é um mercado como chega do feed: nome em texto livre e runners.
// Nenhum versionamento de schema é assumido; mercados desconhecidos são
// descartados pelo normalizador.
type RawMarket struct {
	Name    string      `json:"name"`
	Open    bool        `json:"open"`
	Runners []RawRunner `json:"runners"`
}

// Evento publicado no tópico "raw_markets" a cada ciclo de ingestão do feed.
type RawMarkets struct {
	MatchID   string      `json:"match_id"`
	HomeTeam  string      `json:"home_team"`
	AwayTeam  string      `json:"away_team"`
	IsLive    bool        `json:"is_live"`
	HomeScore int         `json:"home_score"`
	AwayScore int         `json:"away_score"`
	Suspended bool        `json:"suspended"` // bookmaker recalculando; placement deve rejeitar
	KickoffAt time.Time   `json:"kickoff_at"`
	Markets   []RawMarket `json:"markets"`
	FetchedAt time.Time   `json:"fetched_at"`
	Source    string      `json:"source"` // ex: "feed-simulator"
}
