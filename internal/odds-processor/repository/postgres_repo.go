package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/radieske/fanbet-engine/pkg/odds"
)

// PostgresRepo implementa operações de persistência de snapshots em Postgres
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertCurrent insere ou atualiza o snapshot corrente de uma partida na
// tabela odds_current. Utiliza ON CONFLICT para garantir atomicidade por match_id
func (r *PostgresRepo) UpsertCurrent(ctx context.Context, s odds.Snapshot) error {
	prices, err := json.Marshal(s.Prices)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO odds_current
		  (match_id, home_team, away_team, is_live, home_score, away_score,
		   suspended, open_markets, prices, kickoff_at, fetched_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (match_id) DO UPDATE SET
		  home_team   = EXCLUDED.home_team,
		  away_team   = EXCLUDED.away_team,
		  is_live     = EXCLUDED.is_live,
		  home_score  = EXCLUDED.home_score,
		  away_score  = EXCLUDED.away_score,
		  suspended   = EXCLUDED.suspended,
		  open_markets= EXCLUDED.open_markets,
		  prices      = EXCLUDED.prices,
		  kickoff_at  = EXCLUDED.kickoff_at,
		  fetched_at  = EXCLUDED.fetched_at
	`
	_, err = r.DB.ExecContext(ctx, q,
		s.MatchID, s.HomeTeam, s.AwayTeam, s.IsLive, s.HomeScore, s.AwayScore,
		s.Suspended, s.OpenMarkets, prices, s.KickoffAt, s.FetchedAt,
	)
	return err
}

// InsertHistory insere o snapshot no histórico (odds_history)
func (r *PostgresRepo) InsertHistory(ctx context.Context, s odds.Snapshot) error {
	prices, err := json.Marshal(s.Prices)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO odds_history
		  (match_id, is_live, home_score, away_score, open_markets, prices, fetched_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err = r.DB.ExecContext(ctx, q,
		s.MatchID, s.IsLive, s.HomeScore, s.AwayScore, s.OpenMarkets, prices, s.FetchedAt,
	)
	return err
}

// ListCurrent retorna os snapshots correntes de partidas ainda não encerradas,
// ordenados por kickoff. Usado pelo catálogo quando o cache Redis expira.
func (r *PostgresRepo) ListCurrent(ctx context.Context) ([]odds.Snapshot, error) {
	const q = `
		SELECT match_id, home_team, away_team, is_live, home_score, away_score,
		       suspended, open_markets, prices, kickoff_at, fetched_at
		FROM odds_current
		ORDER BY kickoff_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []odds.Snapshot
	for rows.Next() {
		var s odds.Snapshot
		var prices []byte
		if err := rows.Scan(
			&s.MatchID, &s.HomeTeam, &s.AwayTeam, &s.IsLive, &s.HomeScore, &s.AwayScore,
			&s.Suspended, &s.OpenMarkets, &prices, &s.KickoffAt, &s.FetchedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(prices, &s.Prices); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
