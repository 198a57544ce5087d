package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/fanbet-engine/internal/bet-service/catalog"
	"github.com/radieske/fanbet-engine/internal/bet-service/dto"
	"github.com/radieske/fanbet-engine/internal/bet-service/odds"
	"github.com/radieske/fanbet-engine/internal/bet-service/ws"
	"github.com/radieske/fanbet-engine/internal/ledger"
	"github.com/radieske/fanbet-engine/pkg/outcome"
)

const defaultListLimit = 100

type Server struct {
	log        *zap.Logger
	ledger     *ledger.Postgres
	odds       *odds.Source
	hub        *ws.Hub
	betCutoff  time.Duration // janela mínima antes do kickoff para aposta pré-jogo
	sellCutoff time.Duration // janela mínima antes do kickoff para venda
}

func NewServer(log *zap.Logger, l *ledger.Postgres, o *odds.Source, hub *ws.Hub, betCutoff, sellCutoff time.Duration) *Server {
	return &Server{log: log, ledger: l, odds: o, hub: hub, betCutoff: betCutoff, sellCutoff: sellCutoff}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/markets", s.listMarkets)    // GET
	mux.HandleFunc("/markets/", s.getMarkets)    // GET /markets/{matchId}
	mux.HandleFunc("/bets", s.bets)              // POST place | GET ?userId=
	mux.HandleFunc("/bets/live", s.placeLive)    // POST
	mux.HandleFunc("/bets/sell", s.sellWager)    // POST
	mux.HandleFunc("/predictions", s.predictions)
	mux.HandleFunc("/account", s.getAccount)     // GET ?userId=
	mux.HandleFunc("/transactions", s.listTransactions)
	mux.HandleFunc("/prizes", s.listPrizes)      // GET
	mux.HandleFunc("/prizes/claim", s.claimPrize)
	mux.HandleFunc("/leaderboard", s.leaderboard)
	mux.HandleFunc("/admin/deposit", s.deposit)  // POST
	mux.HandleFunc("/admin/repoint", s.repoint)  // POST
	if s.hub != nil {
		mux.HandleFunc("/ws", s.hub.HandleWS)
	}
	return mux
}

// listMarkets devolve o catálogo apostável de todas as partidas conhecidas
func (s *Server) listMarkets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snaps, err := s.odds.List(r.Context())
	if err != nil {
		s.log.Error("list snapshots failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]dto.MatchMarkets, 0, len(snaps))
	for _, snap := range snaps {
		markets := catalog.Build(snap)
		if len(markets) == 0 {
			continue
		}
		out = append(out, dto.MatchMarkets{
			MatchID:   snap.MatchID,
			HomeTeam:  snap.HomeTeam,
			AwayTeam:  snap.AwayTeam,
			IsLive:    snap.IsLive,
			HomeScore: snap.HomeScore,
			AwayScore: snap.AwayScore,
			Suspended: snap.Suspended,
			KickoffAt: snap.KickoffAt,
			Markets:   markets,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// getMarkets devolve o catálogo de uma partida específica
func (s *Server) getMarkets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	matchID := r.URL.Path[len("/markets/"):]
	if matchID == "" {
		writeError(w, http.StatusBadRequest, "matchId required")
		return
	}
	snap, err := s.odds.Snapshot(r.Context(), matchID)
	if err != nil {
		s.log.Error("snapshot read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, dto.MatchMarkets{
		MatchID:   snap.MatchID,
		HomeTeam:  snap.HomeTeam,
		AwayTeam:  snap.AwayTeam,
		IsLive:    snap.IsLive,
		HomeScore: snap.HomeScore,
		AwayScore: snap.AwayScore,
		Suspended: snap.Suspended,
		KickoffAt: snap.KickoffAt,
		Markets:   catalog.Build(*snap),
	})
}

func (s *Server) bets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.place(w, r, false)
	case http.MethodGet:
		s.listWagers(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) placeLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.place(w, r, true)
}

// place cobre os dois caminhos de aposta. Pré-jogo exige janela aberta antes
// do kickoff e preço igual ao visto pelo cliente; ao vivo o preço do cache
// (mais fresco) prevalece sobre o enviado e a chave recebe o marcador LIVE_
func (s *Server) place(w http.ResponseWriter, r *http.Request, live bool) {
	var req dto.PlaceWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.MatchID == "" || req.OutcomeKey == "" || req.Stake <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if _, err := s.ledger.GetOrCreateAccount(r.Context(), req.UserID); err != nil {
		s.log.Error("account lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	snap, err := s.odds.Snapshot(r.Context(), req.MatchID)
	if err != nil {
		s.log.Error("snapshot read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	if snap.Suspended {
		writeError(w, http.StatusConflict, "market suspended")
		return
	}

	if !live {
		if snap.IsLive {
			writeError(w, http.StatusConflict, "match already live, use live betting")
			return
		}
		if time.Until(snap.KickoffAt) < s.betCutoff {
			writeError(w, http.StatusConflict, "betting window closed")
			return
		}
	} else if !snap.IsLive {
		writeError(w, http.StatusConflict, "match is not live")
		return
	}

	key := outcome.TrimLivePrefix(req.OutcomeKey)
	price, ok := snap.Price(key)
	if !ok {
		writeError(w, http.StatusNotFound, "outcome not offered")
		return
	}
	if !live && req.Price > 0 && math.Abs(req.Price-price) > 1e-9 {
		writeError(w, http.StatusConflict, "price changed; current="+strconv.FormatFloat(price, 'f', -1, 64))
		return
	}

	storedKey := key
	if live {
		storedKey = outcome.WithLivePrefix(key)
	}

	wg, err := s.ledger.PlaceWager(r.Context(), ledger.Wager{
		UserID:     req.UserID,
		MatchID:    req.MatchID,
		HomeTeam:   snap.HomeTeam,
		AwayTeam:   snap.AwayTeam,
		OutcomeKey: storedKey,
		Stake:      req.Stake,
		Price:      price,
		IsLive:     live,
	})
	if err != nil {
		s.domainError(w, err)
		return
	}

	acc, err := s.ledger.GetOrCreateAccount(r.Context(), req.UserID)
	if err != nil {
		s.log.Error("account refresh failed", zap.Error(err))
	}

	s.log.Info("wager placed",
		zap.String("wager_id", wg.ID),
		zap.String("key", wg.OutcomeKey),
		zap.Int64("stake", wg.Stake),
		zap.Bool("live", live))

	writeJSON(w, http.StatusCreated, dto.PlaceWagerResponse{
		WagerID:         wg.ID,
		Status:          wg.Status,
		Price:           wg.Price,
		PotentialPayout: wg.PotentialPayout,
		Balance:         acc.Balance,
	})
}

// sellWager encerra antecipadamente uma aposta pendente do usuário.
// Só permitido enquanto a janela de venda antes do kickoff estiver aberta
func (s *Server) sellWager(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.SellWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.WagerID == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	wg, err := s.ledger.GetWager(r.Context(), req.WagerID)
	if err != nil {
		s.domainError(w, err)
		return
	}
	if wg.UserID != req.UserID {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	snap, err := s.odds.Snapshot(r.Context(), wg.MatchID)
	if err != nil {
		s.log.Error("snapshot read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if snap == nil || snap.IsLive || time.Until(snap.KickoffAt) < s.sellCutoff {
		writeError(w, http.StatusConflict, "sell window closed")
		return
	}

	refund, err := s.ledger.SellWager(r.Context(), req.WagerID, req.UserID)
	if err != nil {
		s.domainError(w, err)
		return
	}

	acc, err := s.ledger.GetOrCreateAccount(r.Context(), req.UserID)
	if err != nil {
		s.log.Error("account refresh failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, dto.SellWagerResponse{
		WagerID: req.WagerID,
		Refund:  refund,
		Balance: acc.Balance,
	})
}

func (s *Server) listWagers(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	wagers, err := s.ledger.WagersByUser(r.Context(), userID, defaultListLimit)
	if err != nil {
		s.log.Error("list wagers failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if wagers == nil {
		wagers = []ledger.Wager{}
	}
	writeJSON(w, http.StatusOK, wagers)
}

func (s *Server) predictions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createPrediction(w, r)
	case http.MethodGet:
		s.listPredictions(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createPrediction(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.MatchID == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if _, err := s.ledger.GetOrCreateAccount(r.Context(), req.UserID); err != nil {
		s.log.Error("account lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	pr := ledger.Prediction{UserID: req.UserID, MatchID: req.MatchID, Pick: req.Pick}
	if snap, err := s.odds.Snapshot(r.Context(), req.MatchID); err == nil && snap != nil {
		pr.HomeTeam, pr.AwayTeam = snap.HomeTeam, snap.AwayTeam
	}

	created, err := s.ledger.CreatePrediction(r.Context(), pr)
	if err != nil {
		s.domainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listPredictions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	preds, err := s.ledger.PredictionsByUser(r.Context(), userID, defaultListLimit)
	if err != nil {
		s.log.Error("list predictions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if preds == nil {
		preds = []ledger.Prediction{}
	}
	writeJSON(w, http.StatusOK, preds)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	acc, err := s.ledger.GetOrCreateAccount(r.Context(), userID)
	if err != nil {
		s.log.Error("account lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	txs, err := s.ledger.ListTransactions(r.Context(), userID, defaultListLimit)
	if err != nil {
		s.log.Error("list transactions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) listPrizes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, prizeCatalog)
}

func (s *Server) claimPrize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.ClaimPrizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	prize, ok := findPrize(req.PrizeID)
	if !ok {
		writeError(w, http.StatusNotFound, "prize not found")
		return
	}
	claim, err := s.ledger.PurchasePrize(r.Context(), req.UserID, prize.ID, prize.Cost)
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.log.Info("prize claimed",
		zap.String("user_id", req.UserID),
		zap.String("prize_id", prize.ID),
		zap.Int64("cost", prize.Cost))
	writeJSON(w, http.StatusCreated, claim)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	accounts, err := s.ledger.Leaderboard(r.Context(), 20)
	if err != nil {
		s.log.Error("leaderboard failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// deposit credita pontos na conta de um usuário (caminho do operador).
// Com affectWager o valor também entra no rollover pendente
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if _, err := s.ledger.GetOrCreateAccount(r.Context(), req.UserID); err != nil {
		s.log.Error("account lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	acc, err := s.ledger.Deposit(r.Context(), req.UserID, req.Amount, req.AffectWager, req.Note)
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.log.Info("deposit credited",
		zap.String("user_id", req.UserID),
		zap.Int64("amount", req.Amount),
		zap.Bool("affect_wager", req.AffectWager))
	writeJSON(w, http.StatusOK, acc)
}

// repoint reaponta apostas pendentes de um match_id externo desatualizado
// para o id da fonte de estatísticas (caminho de reparo do operador)
func (s *Server) repoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.RepointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.FromMatchID == "" || req.ToMatchID == "" || req.FromMatchID == req.ToMatchID {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	moved, err := s.ledger.RepointMatch(r.Context(), req.FromMatchID, req.ToMatchID)
	if err != nil {
		s.log.Error("repoint failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.log.Info("wagers repointed",
		zap.String("from", req.FromMatchID),
		zap.String("to", req.ToMatchID),
		zap.Int64("moved", moved))
	writeJSON(w, http.StatusOK, dto.RepointResponse{Moved: moved})
}

// domainError mapeia erros de domínio para status HTTP
func (s *Server) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "insufficient balance")
	case errors.Is(err, ledger.ErrWagerNotPending):
		writeError(w, http.StatusConflict, "wager is not pending")
	case errors.Is(err, ledger.ErrPlaythroughPending):
		writeError(w, http.StatusConflict, "wager playthrough not completed")
	case errors.Is(err, ledger.ErrDuplicatePrediction):
		writeError(w, http.StatusConflict, "prediction already exists for match")
	case errors.Is(err, ledger.ErrInvalidStake), errors.Is(err, ledger.ErrInvalidPick):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.log.Error("unexpected error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
