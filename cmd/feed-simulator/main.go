package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/shared/config"
	"github.com/radieske/fanbet-engine/internal/shared/logger"
	"github.com/radieske/fanbet-engine/internal/stats"
)

// Duração simulada de uma partida; depois disso ela migra para o feed de
// resultados com estatísticas completas.
const matchDuration = 105 * time.Minute

// Métricas Prometheus para monitoramento das requisições servidas
var (
	feedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_simulator_requests_total",
		Help: "Requisições servidas por endpoint",
	}, []string{"endpoint"})
)

// simMatch é o estado mutável de uma partida simulada
type simMatch struct {
	ID        string
	Home      string
	Away      string
	KickoffAt time.Time
	HomeScore int
	AwayScore int
	FirstGoal string
	Suspended bool
	Corners   [2]int
	Cards     [2]int
	Penalty   bool
}

func (m *simMatch) live(now time.Time) bool {
	return now.After(m.KickoffAt) && now.Before(m.KickoffAt.Add(matchDuration))
}

func (m *simMatch) finished(now time.Time) bool {
	return now.After(m.KickoffAt.Add(matchDuration))
}

// world mantém o catálogo de partidas e avança o relógio da simulação
type world struct {
	mu      sync.RWMutex
	matches []*simMatch
	log     *zap.Logger
}

func newWorld(log *zap.Logger) *world {
	now := time.Now().UTC()
	return &world{
		log: log,
		matches: []*simMatch{
			// Duas encerradas, duas ao vivo, duas por começar
			{ID: "MATCH_001", Home: "Flamengo", Away: "Palmeiras", KickoffAt: now.Add(-3 * time.Hour)},
			{ID: "MATCH_002", Home: "Grêmio", Away: "Internacional", KickoffAt: now.Add(-3 * time.Hour)},
			{ID: "MATCH_003", Home: "Corinthians", Away: "Santos", KickoffAt: now.Add(-20 * time.Minute)},
			{ID: "MATCH_004", Home: "São Paulo", Away: "Vasco", KickoffAt: now.Add(-35 * time.Minute)},
			{ID: "MATCH_005", Home: "Botafogo", Away: "Fluminense", KickoffAt: now.Add(30 * time.Minute)},
			{ID: "MATCH_006", Home: "Cruzeiro", Away: "Atlético-MG", KickoffAt: now.Add(2 * time.Hour)},
		},
	}
}

// tick avança o estado das partidas ao vivo: gols ocasionais, escanteios,
// cartões e suspensão curta do mercado logo após cada gol
func (w *world) tick() {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now().UTC()

	for _, m := range w.matches {
		if !m.live(now) && !m.finished(now) {
			continue
		}
		if m.finished(now) && m.Corners[0]+m.Corners[1] == 0 {
			// Completa as estatísticas na primeira passada pós-encerramento
			m.Corners = [2]int{3 + rand.Intn(6), 2 + rand.Intn(5)}
			m.Cards = [2]int{1 + rand.Intn(3), 1 + rand.Intn(4)}
			continue
		}
		if !m.live(now) {
			continue
		}

		m.Suspended = false
		if rand.Intn(100) < 4 { // gol
			side := "home"
			if rand.Intn(2) == 1 {
				side = "away"
			}
			if side == "home" {
				m.HomeScore++
			} else {
				m.AwayScore++
			}
			if m.FirstGoal == "" {
				m.FirstGoal = side
			}
			m.Suspended = true // bookmaker recalculando
			w.log.Info("simulated goal", zap.String("match_id", m.ID), zap.String("side", side))
		}
		if rand.Intn(100) < 12 {
			m.Corners[rand.Intn(2)]++
		}
		if rand.Intn(100) < 5 {
			m.Cards[rand.Intn(2)]++
		}
		if !m.Penalty && rand.Intn(100) < 1 {
			m.Penalty = true
		}
	}
}

// feedEvent é o payload servido pelos endpoints /events/*
type feedEvent struct {
	ID        string       `json:"id"`
	HomeTeam  string       `json:"homeTeam"`
	AwayTeam  string       `json:"awayTeam"`
	Live      bool         `json:"live"`
	HomeScore int          `json:"homeScore"`
	AwayScore int          `json:"awayScore"`
	Suspended bool         `json:"suspended"`
	KickoffAt time.Time    `json:"kickoffAt"`
	Markets   []feedMarket `json:"markets"`
}

type feedMarket struct {
	Name    string       `json:"name"`
	Open    bool         `json:"open"`
	Runners []feedRunner `json:"runners"`
}

type feedRunner struct {
	Name  string  `json:"name"`
	Open  bool    `json:"open"`
	Price float64 `json:"price"`
}

// gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func runner(name string, min, max float64) feedRunner {
	return feedRunner{Name: name, Open: true, Price: rnd(min, max)}
}

// buildMarkets gera a listagem bruta de mercados de uma partida, no formato
// texto-livre que o normalizador conhece
func buildMarkets(m *simMatch) []feedMarket {
	total := m.HomeScore + m.AwayScore
	var out []feedMarket

	out = append(out, feedMarket{Name: "1X2", Open: true, Runners: []feedRunner{
		runner("1", 1.40, 3.50),
		runner("X", 2.50, 4.50),
		runner("2", 2.00, 5.00),
	}})
	out = append(out, feedMarket{Name: "Double Chance", Open: true, Runners: []feedRunner{
		runner("1X", 1.10, 1.60),
		runner("X2", 1.20, 1.90),
		runner("12", 1.15, 1.50),
	}})

	var totals []feedRunner
	for line := 0.5; line <= 5.5; line++ {
		if line < float64(total) {
			continue
		}
		totals = append(totals,
			runner(fmt.Sprintf("Over (%.1f)", line), 1.20, 4.0),
			runner(fmt.Sprintf("Under (%.1f)", line), 1.20, 4.0))
	}
	out = append(out, feedMarket{Name: "Total Goals", Open: true, Runners: totals})

	if total == 0 {
		out = append(out, feedMarket{Name: "Both Teams To Score", Open: true, Runners: []feedRunner{
			runner("Yes", 1.50, 2.30),
			runner("No", 1.60, 2.60),
		}})
		out = append(out, feedMarket{Name: "First Goal", Open: true, Runners: []feedRunner{
			runner("1", 1.50, 2.40),
			runner("2", 1.80, 3.20),
			runner("No Goal", 7.00, 12.0),
		}})
	}

	out = append(out, feedMarket{Name: "Draw No Bet", Open: true, Runners: []feedRunner{
		runner("1", 1.25, 2.20),
		runner("2", 1.60, 3.00),
	}})
	out = append(out, feedMarket{Name: "Handicap", Open: true, Runners: []feedRunner{
		runner("1 (-1.5)", 2.10, 3.40),
		runner("2 (+1.5)", 1.35, 1.75),
		runner("1 (-1)", 1.80, 2.60),
		runner("2 (+1)", 1.45, 1.95),
	}})

	var scores []feedRunner
	for h := m.HomeScore; h <= m.HomeScore+3; h++ {
		for a := m.AwayScore; a <= m.AwayScore+3; a++ {
			scores = append(scores, runner(fmt.Sprintf("%d:%d", h, a), 4.0, 30.0))
		}
	}
	out = append(out, feedMarket{Name: "Correct Score", Open: true, Runners: scores})

	out = append(out, feedMarket{Name: "Odd/Even Total Goals", Open: true, Runners: []feedRunner{
		runner("Odd", 1.80, 2.05),
		runner("Even", 1.80, 2.05),
	}})
	out = append(out, feedMarket{Name: "Total Goals - Home Team", Open: true, Runners: []feedRunner{
		runner("Over (1.5)", 1.60, 2.80),
		runner("Under (1.5)", 1.40, 2.20),
	}})
	out = append(out, feedMarket{Name: "Total Goals - Away Team", Open: true, Runners: []feedRunner{
		runner("Over (1.5)", 1.90, 3.20),
		runner("Under (1.5)", 1.30, 1.90),
	}})
	out = append(out, feedMarket{Name: "Total Corners", Open: true, Runners: []feedRunner{
		runner("Over (9.5)", 1.70, 2.10),
		runner("Under (9.5)", 1.70, 2.10),
	}})
	out = append(out, feedMarket{Name: "Total Cards", Open: true, Runners: []feedRunner{
		runner("Over (4.5)", 1.75, 2.15),
		runner("Under (4.5)", 1.65, 2.05),
	}})
	out = append(out, feedMarket{Name: "Penalty Awarded", Open: true, Runners: []feedRunner{
		runner("Yes", 2.80, 4.20),
		runner("No", 1.22, 1.40),
	}})

	return out
}

func (w *world) events(liveOnly bool) []feedEvent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	now := time.Now().UTC()

	var out []feedEvent
	for _, m := range w.matches {
		if m.finished(now) {
			continue
		}
		isLive := m.live(now)
		if liveOnly != isLive {
			continue
		}
		out = append(out, feedEvent{
			ID:        m.ID,
			HomeTeam:  m.Home,
			AwayTeam:  m.Away,
			Live:      isLive,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			Suspended: m.Suspended,
			KickoffAt: m.KickoffAt,
			Markets:   buildMarkets(m),
		})
	}
	return out
}

func (w *world) finishedMatches() []stats.FinishedMatch {
	w.mu.RLock()
	defer w.mu.RUnlock()
	now := time.Now().UTC()

	var out []stats.FinishedMatch
	for _, m := range w.matches {
		if !m.finished(now) {
			continue
		}
		out = append(out, stats.FinishedMatch{
			MatchID:    m.ID,
			HomeTeam:   m.Home,
			AwayTeam:   m.Away,
			HomeScore:  m.HomeScore,
			AwayScore:  m.AwayScore,
			FinishedAt: m.KickoffAt.Add(matchDuration),
		})
	}
	return out
}

func (w *world) statistics(matchID string) (stats.MatchStatistics, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	now := time.Now().UTC()

	for _, m := range w.matches {
		if m.ID != matchID || !m.finished(now) {
			continue
		}
		outcome := stats.OutcomeDraw
		if m.HomeScore > m.AwayScore {
			outcome = stats.OutcomeHome
		} else if m.AwayScore > m.HomeScore {
			outcome = stats.OutcomeAway
		}
		return stats.MatchStatistics{
			HomeScore:   m.HomeScore,
			AwayScore:   m.AwayScore,
			TotalGoals:  m.HomeScore + m.AwayScore,
			HomeCorners: m.Corners[0],
			AwayCorners: m.Corners[1],
			HomeCards:   m.Cards[0],
			AwayCards:   m.Cards[1],
			BothScored:  m.HomeScore > 0 && m.AwayScore > 0,
			Outcome:     outcome,
			HasPenalty:  m.Penalty,
			FirstGoal:   m.FirstGoal,
		}, true
	}
	return stats.MatchStatistics{}, false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(feedRequests)

	w := newWorld(log)
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			w.tick()
		}
	}()

	// ==== MUX PÚBLICO: feed do bookmaker + feed de resultados
	appMux := http.NewServeMux()
	appMux.HandleFunc("/events/live", func(rw http.ResponseWriter, r *http.Request) {
		feedRequests.WithLabelValues("events_live").Inc()
		writeJSON(rw, w.events(true))
	})
	appMux.HandleFunc("/events/prematch", func(rw http.ResponseWriter, r *http.Request) {
		feedRequests.WithLabelValues("events_prematch").Inc()
		writeJSON(rw, w.events(false))
	})
	appMux.HandleFunc("/results/finished", func(rw http.ResponseWriter, r *http.Request) {
		feedRequests.WithLabelValues("results_finished").Inc()
		writeJSON(rw, w.finishedMatches())
	})
	appMux.HandleFunc("/results/", func(rw http.ResponseWriter, r *http.Request) {
		feedRequests.WithLabelValues("results_statistics").Inc()
		// path: /results/{id}/statistics
		rest := strings.TrimPrefix(r.URL.Path, "/results/")
		matchID := strings.TrimSuffix(rest, "/statistics")
		st, ok := w.statistics(matchID)
		if !ok {
			http.Error(rw, "not found", http.StatusNotFound)
			return
		}
		writeJSON(rw, st)
	})

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("feed simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("feed simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/events/*,/results/*"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
