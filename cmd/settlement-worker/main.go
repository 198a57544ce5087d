package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/ledger"
	"github.com/radieske/fanbet-engine/internal/settlement"
	sharedcache "github.com/radieske/fanbet-engine/internal/shared/cache"
	"github.com/radieske/fanbet-engine/internal/shared/config"
	"github.com/radieske/fanbet-engine/internal/shared/db"
	sharedkafka "github.com/radieske/fanbet-engine/internal/shared/kafka"
	"github.com/radieske/fanbet-engine/internal/shared/logger"
	"github.com/radieske/fanbet-engine/internal/stats"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

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

	book := ledger.NewPostgres(pg)
	statsClient := stats.NewClient(cfg.ResultsFeedURL, redisClient, cfg.StatsCacheTTL, log)

	notifier := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSettlementCompleted)
	defer notifier.Close()

	// Métricas Prometheus do ciclo de liquidação
	cycles := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_cycles_total", Help: "ciclos do scheduler"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_matches_settled_total", Help: "partidas liquidadas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por fase"}, []string{"stage"})
	prometheus.MustRegister(cycles, settled, errorsBy)

	sched := &settlement.Scheduler{
		Log:       log,
		Stats:     statsClient,
		Marks:     book,
		Engine:    settlement.NewEngine(log, book),
		Notifier:  notifier,
		Interval:  cfg.SettleInterval,
		OnCycle:   func() { cycles.Inc() },
		OnSettled: func() { settled.Inc() },
		OnError:   func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
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
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("settlement-worker started", zap.Duration("interval", cfg.SettleInterval))
	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("scheduler stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}
