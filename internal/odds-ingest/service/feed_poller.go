package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/odds-ingest/publisher"
	"github.com/radieske/fanbet-engine/pkg/contracts/events"
)

// feedEvent é o formato de partida exposto pela API do bookmaker.
type feedEvent struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	Live      bool      `json:"live"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
	Suspended bool      `json:"suspended"`
	KickoffAt time.Time `json:"kickoffAt"`
	Markets   []struct {
		Name    string `json:"name"`
		Open    bool   `json:"open"`
		Runners []struct {
			Name  string  `json:"name"`
			Open  bool    `json:"open"`
			Price float64 `json:"price"`
		} `json:"runners"`
	} `json:"markets"`
}

// FeedPoller consulta periodicamente a API HTTP do bookmaker e publica cada
// listagem bruta de mercados no Kafka. Partidas ao vivo são consultadas em
// intervalo mais curto que as pré-jogo.
type FeedPoller struct {
	BaseURL          string
	Log              *zap.Logger
	Publisher        *publisher.KafkaPublisher
	HTTP             *http.Client
	LiveInterval     time.Duration
	PrematchInterval time.Duration

	OnPolled    func(kind string) // métricas por tipo de varredura
	OnPublished func()            // métricas
	OnError     func(kind string) // métricas
}

// Start inicia os dois loops de polling e bloqueia até o contexto encerrar.
func (p *FeedPoller) Start(ctx context.Context) {
	liveTick := time.NewTicker(p.LiveInterval)
	preTick := time.NewTicker(p.PrematchInterval)
	defer liveTick.Stop()
	defer preTick.Stop()

	// Varredura inicial imediata para não esperar o primeiro tick
	p.poll(ctx, "prematch")
	p.poll(ctx, "live")

	for {
		select {
		case <-ctx.Done():
			p.Log.Info("context canceled, stopping feed poller")
			return
		case <-liveTick.C:
			p.poll(ctx, "live")
		case <-preTick.C:
			p.poll(ctx, "prematch")
		}
	}
}

// poll busca a listagem de um tipo (live|prematch) e publica cada partida.
func (p *FeedPoller) poll(ctx context.Context, kind string) {
	evs, err := p.fetch(ctx, kind)
	if err != nil {
		p.Log.Warn("feed fetch failed", zap.String("kind", kind), zap.Error(err))
		if p.OnError != nil {
			p.OnError(kind)
		}
		return
	}
	if p.OnPolled != nil {
		p.OnPolled(kind)
	}

	now := time.Now().UTC()
	for _, fe := range evs {
		if err := p.Publisher.Publish(ctx, toEvent(fe, now)); err != nil {
			p.Log.Error("failed to publish to Kafka", zap.Error(err))
			if p.OnError != nil {
				p.OnError("publish")
			}
			continue
		}
		if p.OnPublished != nil {
			p.OnPublished()
		}
	}
	p.Log.Debug("feed poll completed", zap.String("kind", kind), zap.Int("events", len(evs)))
}

func (p *FeedPoller) fetch(ctx context.Context, kind string) ([]feedEvent, error) {
	url := p.BaseURL + "/events/" + kind
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var out []feedEvent
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func toEvent(fe feedEvent, fetchedAt time.Time) events.RawMarkets {
	ev := events.RawMarkets{
		MatchID:   fe.ID,
		HomeTeam:  fe.HomeTeam,
		AwayTeam:  fe.AwayTeam,
		IsLive:    fe.Live,
		HomeScore: fe.HomeScore,
		AwayScore: fe.AwayScore,
		Suspended: fe.Suspended,
		KickoffAt: fe.KickoffAt,
		FetchedAt: fetchedAt,
		Source:    "bookmaker-feed",
	}
	for _, m := range fe.Markets {
		rm := events.RawMarket{Name: m.Name, Open: m.Open}
		for _, r := range m.Runners {
			rm.Runners = append(rm.Runners, events.RawRunner{Name: r.Name, Open: r.Open, Price: r.Price})
		}
		ev.Markets = append(ev.Markets, rm)
	}
	return ev
}
