package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/fanbet-engine/pkg/odds"
)

// SnapshotCache encapsula operações de cache de snapshots de mercado no Redis.
// TTLLive/TTLPrematch: expiração conforme o estado da partida (ao vivo o feed
// atualiza com frequência maior, então o snapshot envelhece mais rápido).
type SnapshotCache struct {
	Client      *redis.Client
	TTLLive     time.Duration
	TTLPrematch time.Duration
}

func NewSnapshotCache(c *redis.Client, ttlLive, ttlPrematch time.Duration) *SnapshotCache {
	return &SnapshotCache{Client: c, TTLLive: ttlLive, TTLPrematch: ttlPrematch}
}

// key gera a chave Redis do snapshot corrente de uma partida
func key(matchID string) string { return "odds:snapshot:" + matchID }

// SetSnapshot armazena o snapshot corrente de uma partida com TTL por estado
func (r *SnapshotCache) SetSnapshot(ctx context.Context, s odds.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := r.TTLPrematch
	if s.IsLive {
		ttl = r.TTLLive
	}
	return r.Client.Set(ctx, key(s.MatchID), b, ttl).Err()
}

// GetSnapshot recupera o snapshot corrente; retorna (nil, nil) em cache miss
func (r *SnapshotCache) GetSnapshot(ctx context.Context, matchID string) (*odds.Snapshot, error) {
	b, err := r.Client.Get(ctx, key(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s odds.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
