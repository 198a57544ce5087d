package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client consome o colaborador de resultados/estatísticas com cache Redis.
// As chamadas usam timeout curto; em caso de falha o settlement-worker apenas
// deixa a partida para o próximo ciclo.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Rdb     *redis.Client
	TTL     time.Duration
	Log     *zap.Logger
}

func NewClient(baseURL string, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Rdb:     rdb,
		TTL:     ttl,
		Log:     log,
	}
}

func statsKey(matchID string) string { return "stats:match:" + matchID }

// FinishedMatches lista as partidas recém-encerradas segundo o feed.
func (c *Client) FinishedMatches(ctx context.Context) ([]FinishedMatch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/results/finished", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("results feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results feed http %d", resp.StatusCode)
	}

	var out []FinishedMatch
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode finished matches: %w", err)
	}
	return out, nil
}

// MatchStatistics busca o snapshot final de uma partida, com cache.
// Snapshots são imutáveis depois que a partida termina, então o cache só
// serve pra poupar chamadas quando a liquidação é adiada e re-tentada.
func (c *Client) MatchStatistics(ctx context.Context, matchID string) (MatchStatistics, error) {
	var st MatchStatistics

	if c.Rdb != nil {
		if b, err := c.Rdb.Get(ctx, statsKey(matchID)).Bytes(); err == nil {
			if jerr := json.Unmarshal(b, &st); jerr == nil {
				return st, nil
			}
		}
	}

	url := fmt.Sprintf("%s/results/%s/statistics", c.BaseURL, matchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return st, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return st, fmt.Errorf("stats feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("stats feed http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decode statistics: %w", err)
	}

	// Só cacheia snapshot que passou na validação: um snapshot parcial
	// cacheado adiaria a liquidação pelo TTL inteiro.
	if c.Rdb != nil && st.Validate() == nil {
		if b, err := json.Marshal(st); err == nil {
			if err := c.Rdb.Set(ctx, statsKey(matchID), b, c.TTL).Err(); err != nil {
				c.Log.Warn("stats cache set failed", zap.Error(err))
			}
		}
	}

	return st, nil
}
