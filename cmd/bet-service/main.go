package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	bhttp "github.com/radieske/fanbet-engine/internal/bet-service/http"
	"github.com/radieske/fanbet-engine/internal/bet-service/odds"
	"github.com/radieske/fanbet-engine/internal/bet-service/ws"
	"github.com/radieske/fanbet-engine/internal/ledger"
	processorcache "github.com/radieske/fanbet-engine/internal/odds-processor/cache"
	"github.com/radieske/fanbet-engine/internal/odds-processor/repository"
	sharedcache "github.com/radieske/fanbet-engine/internal/shared/cache"
	"github.com/radieske/fanbet-engine/internal/shared/config"
	"github.com/radieske/fanbet-engine/internal/shared/db"
	"github.com/radieske/fanbet-engine/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// deps
	book := ledger.NewPostgres(pg)
	source := odds.NewSource(log,
		processorcache.NewSnapshotCache(rdb, cfg.SnapshotTTLLive, cfg.SnapshotTTLPre),
		repository.NewPostgresRepo(pg))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Hub WS alimentado pelo Pub/Sub do odds-processor
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, rdb, cfg.RedisPubSubChannel, hub, log)

	// HTTP público
	api := bhttp.NewServer(log, book, source, hub, cfg.BetCutoff, cfg.SellCutoff)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	go func() {
		log.Info("bet-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("api shutdown", zap.Error(err))
	}
	log.Info("bet-service stopped")
}
