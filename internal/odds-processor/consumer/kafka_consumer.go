package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/odds-processor/cache"
	"github.com/radieske/fanbet-engine/internal/odds-processor/normalizer"
	"github.com/radieske/fanbet-engine/internal/odds-processor/pubsub"
	"github.com/radieske/fanbet-engine/internal/odds-processor/repository"
	"github.com/radieske/fanbet-engine/pkg/contracts/events"
)

// Processor consome listagens brutas de mercados do Kafka, normaliza para o
// vocabulário canônico, faz cache do snapshot, persiste e publica o broadcast.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log        *zap.Logger
	Reader     *kafka.Reader
	DLQ        *kafka.Writer // mensagens indecodificáveis
	Normalizer *normalizer.Normalizer
	Repo       *repository.PostgresRepo
	Cache      *cache.SnapshotCache
	Broadcast  *pubsub.RedisBroadcaster
	Channel    string

	OnConsumed func()       // métricas (counter++)
	OnCached   func()       // métricas
	OnPersist  func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var ev events.RawMarkets
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.deadLetter(ctx, m)
			continue
		}
		if ev.MatchID == "" {
			p.Log.Warn("message without match id")
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.deadLetter(ctx, m)
			continue
		}

		snap := p.Normalizer.Normalize(ev)

		// Atualiza cache Redis com o snapshot corrente
		if err := p.Cache.SetSnapshot(ctx, snap); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache")
			}
			// não bloqueia persistência se falhar o cache
		} else if p.OnCached != nil {
			p.OnCached() // callback de métrica: cache atualizado
		}

		// Persiste/atualiza snapshot corrente e histórico no Postgres
		if err := p.Repo.UpsertCurrent(ctx, snap); err != nil {
			p.Log.Warn("db upsert failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_upsert")
			}
			continue
		}
		if err := p.Repo.InsertHistory(ctx, snap); err != nil {
			p.Log.Warn("db insert history failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("db_history")
			}
			continue
		}
		if p.OnPersist != nil {
			p.OnPersist() // callback de métrica: persistência concluída
		}

		p.broadcast(ctx, snap.MatchID, snap)
	}
}

// broadcast publica o snapshot no canal Redis assinado pelo hub WS.
// Falha de broadcast não interrompe o pipeline.
func (p *Processor) broadcast(ctx context.Context, matchID string, payload interface{}) {
	if p.Broadcast == nil {
		return
	}
	b, err := json.Marshal(pubsub.WSUpdate{MatchID: matchID, Payload: payload})
	if err != nil {
		return
	}
	if err := p.Broadcast.Publish(ctx, p.Channel, b); err != nil {
		p.Log.Warn("broadcast publish failed", zap.Error(err))
		if p.OnError != nil {
			p.OnError("broadcast")
		}
	}
}

// deadLetter encaminha a mensagem original para o tópico DLQ para inspeção
func (p *Processor) deadLetter(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	if err := p.DLQ.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value, Time: time.Now()}); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
	}
}
