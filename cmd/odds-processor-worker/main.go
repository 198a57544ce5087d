package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/odds-processor/cache"
	"github.com/radieske/fanbet-engine/internal/odds-processor/consumer"
	"github.com/radieske/fanbet-engine/internal/odds-processor/normalizer"
	"github.com/radieske/fanbet-engine/internal/odds-processor/pubsub"
	"github.com/radieske/fanbet-engine/internal/odds-processor/repository"
	sharedcache "github.com/radieske/fanbet-engine/internal/shared/cache"
	"github.com/radieske/fanbet-engine/internal/shared/config"
	"github.com/radieske/fanbet-engine/internal/shared/db"
	sharedkafka "github.com/radieske/fanbet-engine/internal/shared/kafka"
	"github.com/radieske/fanbet-engine/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Cache de snapshots com TTL por estado da partida e repositório Postgres
	rcache := cache.NewSnapshotCache(redisClient, cfg.SnapshotTTLLive, cfg.SnapshotTTLPre)
	repo := repository.NewPostgresRepo(pg)

	// Configura o consumer Kafka (consumer group odds-processor)
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "odds-processor",
		Topic:    cfg.TopicRawMarkets,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	dlq := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRawMarketsDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_proc_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_proc_cache_sets_total", Help: "sets no cache"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_proc_db_writes_total", Help: "escritas no banco (upsert+history)"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, cached, persist, errorsBy)

	// Broadcaster para publicar snapshots no Redis Pub/Sub (hub WS do bet-service)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	// Instancia o processor, conectando normalizador, callbacks e broadcast
	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		DLQ:        dlq,
		Normalizer: normalizer.New(log),
		Repo:       repo,
		Cache:      rcache,
		Broadcast:  broadcaster,
		Channel:    cfg.RedisPubSubChannel,
		OnConsumed: func() { consumed.Inc() },
		OnCached:   func() { cached.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("odds-processor started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("odds-processor stopped")
}
