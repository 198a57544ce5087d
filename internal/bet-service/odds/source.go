package odds

import (
	"context"

	"go.uber.org/zap"

	processorcache "github.com/radieske/fanbet-engine/internal/odds-processor/cache"
	"github.com/radieske/fanbet-engine/internal/odds-processor/repository"
	"github.com/radieske/fanbet-engine/pkg/odds"
)

// Source resolve snapshots de mercado para o catálogo e para o placement.
// Prefere o cache Redis (mais fresco); em miss cai para a leitura do Postgres.
// A aposta ao vivo sempre usa o preço daqui, nunca o enviado pelo cliente.
type Source struct {
	Log   *zap.Logger
	Cache *processorcache.SnapshotCache
	Repo  *repository.PostgresRepo
}

func NewSource(log *zap.Logger, c *processorcache.SnapshotCache, r *repository.PostgresRepo) *Source {
	return &Source{Log: log, Cache: c, Repo: r}
}

// Snapshot retorna o snapshot corrente de uma partida; nil quando desconhecida
func (s *Source) Snapshot(ctx context.Context, matchID string) (*odds.Snapshot, error) {
	snap, err := s.Cache.GetSnapshot(ctx, matchID)
	if err != nil {
		s.Log.Warn("snapshot cache read failed", zap.Error(err))
	}
	if snap != nil {
		return snap, nil
	}

	all, err := s.Repo.ListCurrent(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].MatchID == matchID {
			return &all[i], nil
		}
	}
	return nil, nil
}

// List retorna os snapshots correntes de todas as partidas conhecidas
func (s *Source) List(ctx context.Context) ([]odds.Snapshot, error) {
	return s.Repo.ListCurrent(ctx)
}
