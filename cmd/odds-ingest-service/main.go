package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/odds-ingest/publisher"
	"github.com/radieske/fanbet-engine/internal/odds-ingest/service"
	"github.com/radieske/fanbet-engine/internal/shared/config"
	"github.com/radieske/fanbet-engine/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka Publisher
	pub := publisher.NewKafkaPublisher(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.TopicRawMarkets,
		log,
	)
	defer pub.Close()

	// Métricas Prometheus por varredura do feed
	polled := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_ingest_polls_total", Help: "varreduras completadas por tipo"}, []string{"kind"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "odds_ingest_published_total", Help: "listagens publicadas no Kafka"})
	ingestErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "odds_ingest_errors_total", Help: "erros por fase"}, []string{"kind"})
	prometheus.MustRegister(polled, published, ingestErrors)

	// Poller HTTP do feed do bookmaker
	poller := &service.FeedPoller{
		BaseURL:          cfg.BookmakerFeedURL,
		Log:              log,
		Publisher:        pub,
		HTTP:             &http.Client{Timeout: 10 * time.Second},
		LiveInterval:     cfg.FeedPollLive,
		PrematchInterval: cfg.FeedPollPrematch,
		OnPolled:         func(kind string) { polled.WithLabelValues(kind).Inc() },
		OnPublished:      func() { published.Inc() },
		OnError:          func(kind string) { ingestErrors.WithLabelValues(kind).Inc() },
	}
	go poller.Start(ctx)

	// Metrics e health
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()
	time.Sleep(2 * time.Second)
}
