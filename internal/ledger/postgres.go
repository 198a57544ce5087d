package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Postgres implementa a contabilidade de pontos em banco.
// Toda mutação de saldo acontece em uma única transação com lock pessimista
// na linha da conta; liquidação e aposta concorrentes nunca se entrelaçam.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// lockAccount trava a linha da conta e retorna o estado corrente
func lockAccount(ctx context.Context, tx *sql.Tx, userID string) (balance, wagerRemaining int64, err error) {
	err = tx.QueryRowContext(ctx,
		`SELECT balance, wager_remaining FROM accounts WHERE user_id=$1 FOR UPDATE`,
		userID).Scan(&balance, &wagerRemaining)
	if err == sql.ErrNoRows {
		return 0, 0, ErrNotFound
	}
	return balance, wagerRemaining, err
}

// insertTransaction registra um lançamento no extrato com saldo antes/depois
func insertTransaction(ctx context.Context, tx *sql.Tx, userID, kind string, amount, before, after int64, reference, note string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, kind, amount, balance_before, balance_after, reference, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		uuid.NewString(), userID, kind, amount, before, after, reference, note)
	return err
}

// GetOrCreateAccount retorna a conta do usuário, criando com o saldo inicial
// se não existir. Usa transação para garantir atomicidade
func (p *Postgres) GetOrCreateAccount(ctx context.Context, userID string) (Account, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	var a Account
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, balance, wager_remaining, wins, losses, profit, created_at, updated_at
		FROM accounts WHERE user_id=$1`, userID).
		Scan(&a.UserID, &a.Balance, &a.WagerRemaining, &a.Wins, &a.Losses, &a.Profit, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		now := time.Now().UTC()
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO accounts (user_id, balance, wager_remaining, wins, losses, profit, created_at, updated_at)
			VALUES ($1,$2,$3,0,0,0,$4,$4)`,
			userID, InitialBalance, InitialBalance, now); err != nil {
			return Account{}, err
		}
		if err = insertTransaction(ctx, tx, userID, TxDeposit, InitialBalance, 0, InitialBalance, "", "initial balance"); err != nil {
			return Account{}, err
		}
		a = Account{UserID: userID, Balance: InitialBalance, WagerRemaining: InitialBalance, CreatedAt: now, UpdatedAt: now}
	} else if err != nil {
		return Account{}, err
	}

	if err = tx.Commit(); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Deposit credita pontos na conta. Quando affectWager é verdadeiro o valor
// também entra no rollover pendente (único caminho que aumenta wager_remaining)
func (p *Postgres) Deposit(ctx context.Context, userID string, amount int64, affectWager bool, note string) (Account, error) {
	if amount <= 0 {
		return Account{}, ErrInvalidStake
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	balance, _, err := lockAccount(ctx, tx, userID)
	if err != nil {
		return Account{}, err
	}

	wagerDelta := int64(0)
	if affectWager {
		wagerDelta = amount
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + $1, wager_remaining = wager_remaining + $2, updated_at = NOW()
		WHERE user_id=$3`, amount, wagerDelta, userID); err != nil {
		return Account{}, err
	}
	if err = insertTransaction(ctx, tx, userID, TxDeposit, amount, balance, balance+amount, "", note); err != nil {
		return Account{}, err
	}

	if err = tx.Commit(); err != nil {
		return Account{}, err
	}
	return p.account(ctx, userID)
}

// PlaceWager debita o stake, abate o rollover e insere a aposta PENDING,
// tudo na mesma transação. O preço fica congelado na linha da aposta
func (p *Postgres) PlaceWager(ctx context.Context, w Wager) (Wager, error) {
	if w.Stake <= 0 {
		return Wager{}, ErrInvalidStake
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Wager{}, err
	}
	defer tx.Rollback()

	balance, remaining, err := lockAccount(ctx, tx, w.UserID)
	if err != nil {
		return Wager{}, err
	}
	if balance < w.Stake {
		return Wager{}, ErrInsufficientBalance
	}

	burn := w.Stake
	if burn > remaining {
		burn = remaining
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance - $1, wager_remaining = wager_remaining - $2, updated_at = NOW()
		WHERE user_id=$3`, w.Stake, burn, w.UserID); err != nil {
		return Wager{}, err
	}

	w.ID = uuid.NewString()
	w.Status = StatusPending
	w.PotentialPayout = PotentialPayout(w.Stake, w.Price)
	w.CreatedAt = time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO wagers
		  (id, user_id, match_id, home_team, away_team, outcome_key, stake, price, potential_payout, status, is_live, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		w.ID, w.UserID, w.MatchID, w.HomeTeam, w.AwayTeam, w.OutcomeKey,
		w.Stake, w.Price, w.PotentialPayout, w.Status, w.IsLive, w.CreatedAt); err != nil {
		return Wager{}, err
	}

	if err = insertTransaction(ctx, tx, w.UserID, TxWagerPlace, -w.Stake, balance, balance-w.Stake, w.ID, w.OutcomeKey); err != nil {
		return Wager{}, err
	}

	if err = tx.Commit(); err != nil {
		return Wager{}, err
	}
	return w, nil
}

// SellWager encerra voluntariamente uma aposta PENDING do dono, creditando
// metade do stake (piso 1). Distinto de liquidação
func (p *Postgres) SellWager(ctx context.Context, wagerID, userID string) (refund int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var stake int64
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT stake, status FROM wagers WHERE id=$1 AND user_id=$2 FOR UPDATE`,
		wagerID, userID).Scan(&stake, &status)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if status != StatusPending {
		return 0, ErrWagerNotPending
	}

	balance, _, err := lockAccount(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	refund = SellValue(stake)
	if _, err = tx.ExecContext(ctx,
		`UPDATE wagers SET status=$1, settled_at=NOW() WHERE id=$2`, StatusSold, wagerID); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE user_id=$2`, refund, userID); err != nil {
		return 0, err
	}
	if err = insertTransaction(ctx, tx, userID, TxWagerSell, refund, balance, balance+refund, wagerID, ""); err != nil {
		return 0, err
	}

	return refund, tx.Commit()
}

// settleWager aplica um desfecho terminal a uma aposta ainda PENDING.
// Idempotente: aposta já liquidada retorna ErrWagerNotPending sem efeito
func (p *Postgres) settleWager(ctx context.Context, wagerID, newStatus, txKind string, credit func(stake, payout int64) int64, winDelta, lossDelta int64) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID, status string
	var stake, payout int64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, status, stake, potential_payout FROM wagers WHERE id=$1 FOR UPDATE`,
		wagerID).Scan(&userID, &status, &stake, &payout)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != StatusPending {
		return ErrWagerNotPending
	}

	balance, _, err := lockAccount(ctx, tx, userID)
	if err != nil {
		return err
	}

	amount := credit(stake, payout)
	var profitDelta int64
	switch newStatus {
	case StatusWon:
		profitDelta = amount - stake
	case StatusLost:
		profitDelta = -stake
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE wagers SET status=$1, settled_at=NOW() WHERE id=$2`, newStatus, wagerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + $1, wins = wins + $2, losses = losses + $3,
		       profit = profit + $4, updated_at = NOW()
		WHERE user_id=$5`, amount, winDelta, lossDelta, profitDelta, userID); err != nil {
		return err
	}
	if err = insertTransaction(ctx, tx, userID, txKind, amount, balance, balance+amount, wagerID, ""); err != nil {
		return err
	}

	return tx.Commit()
}

// SettleWon credita o retorno bruto integral (não apenas o lucro)
func (p *Postgres) SettleWon(ctx context.Context, wagerID string) error {
	return p.settleWager(ctx, wagerID, StatusWon, TxWagerWon,
		func(stake, payout int64) int64 { return payout }, 1, 0)
}

// SettleLost não movimenta saldo (stake já debitado na criação) mas registra
// lançamento de valor zero para completude do extrato
func (p *Postgres) SettleLost(ctx context.Context, wagerID string) error {
	return p.settleWager(ctx, wagerID, StatusLost, TxWagerLost,
		func(stake, payout int64) int64 { return 0 }, 0, 1)
}

// SettlePush devolve exatamente o stake (não o retorno potencial)
func (p *Postgres) SettlePush(ctx context.Context, wagerID string) error {
	return p.settleWager(ctx, wagerID, StatusReturned, TxWagerPush,
		func(stake, payout int64) int64 { return stake }, 0, 0)
}

// CreatePrediction insere um palpite PENDING; um por usuário por partida
func (p *Postgres) CreatePrediction(ctx context.Context, pr Prediction) (Prediction, error) {
	if pr.Pick != "home" && pr.Pick != "draw" && pr.Pick != "away" {
		return Prediction{}, ErrInvalidPick
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Prediction{}, err
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM predictions WHERE user_id=$1 AND match_id=$2`,
		pr.UserID, pr.MatchID).Scan(&exists)
	if err == nil {
		return Prediction{}, ErrDuplicatePrediction
	}
	if err != sql.ErrNoRows {
		return Prediction{}, err
	}

	pr.ID = uuid.NewString()
	pr.Status = StatusPending
	pr.CreatedAt = time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO predictions (id, user_id, match_id, home_team, away_team, pick, status, points_delta, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,0,$8)`,
		pr.ID, pr.UserID, pr.MatchID, pr.HomeTeam, pr.AwayTeam, pr.Pick, pr.Status, pr.CreatedAt); err != nil {
		return Prediction{}, err
	}

	if err = tx.Commit(); err != nil {
		return Prediction{}, err
	}
	return pr, nil
}

// SettlePrediction aplica o delta fixo de pontos de um palpite PENDING.
// A multa nunca leva o saldo abaixo de zero; o lançamento registra o valor
// efetivamente aplicado
func (p *Postgres) SettlePrediction(ctx context.Context, predictionID string, correct bool) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID, status string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, status FROM predictions WHERE id=$1 FOR UPDATE`,
		predictionID).Scan(&userID, &status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != StatusPending {
		return ErrWagerNotPending
	}

	balance, _, err := lockAccount(ctx, tx, userID)
	if err != nil {
		return err
	}

	newStatus := StatusLost
	delta := -PredictionFine
	if correct {
		newStatus = StatusWon
		delta = PredictionReward
	}
	if delta < 0 && balance+delta < 0 {
		delta = -balance
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE predictions SET status=$1, points_delta=$2, settled_at=NOW() WHERE id=$3`,
		newStatus, delta, predictionID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE user_id=$2`,
		delta, userID); err != nil {
		return err
	}
	if err = insertTransaction(ctx, tx, userID, TxPrediction, delta, balance, balance+delta, predictionID, ""); err != nil {
		return err
	}

	return tx.Commit()
}

// PurchasePrize debita o custo de um prêmio. Exige rollover zerado
func (p *Postgres) PurchasePrize(ctx context.Context, userID, prizeID string, cost int64) (PrizeClaim, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return PrizeClaim{}, err
	}
	defer tx.Rollback()

	balance, remaining, err := lockAccount(ctx, tx, userID)
	if err != nil {
		return PrizeClaim{}, err
	}
	if remaining > 0 {
		return PrizeClaim{}, ErrPlaythroughPending
	}
	if balance < cost {
		return PrizeClaim{}, ErrInsufficientBalance
	}

	claim := PrizeClaim{
		ID:        uuid.NewString(),
		UserID:    userID,
		PrizeID:   prizeID,
		Cost:      cost,
		CreatedAt: time.Now().UTC(),
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO prize_claims (id, user_id, prize_id, cost, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		claim.ID, claim.UserID, claim.PrizeID, claim.Cost, claim.CreatedAt); err != nil {
		return PrizeClaim{}, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - $1, updated_at = NOW() WHERE user_id=$2`,
		cost, userID); err != nil {
		return PrizeClaim{}, err
	}
	if err = insertTransaction(ctx, tx, userID, TxPrize, -cost, balance, balance-cost, claim.ID, prizeID); err != nil {
		return PrizeClaim{}, err
	}

	if err = tx.Commit(); err != nil {
		return PrizeClaim{}, err
	}
	return claim, nil
}

// RepointMatch reaponta apostas e palpites PENDING de um match_id externo
// desatualizado para o id da fonte de estatísticas (reparo operacional).
// O mapeamento fica persistido em match_id_map para o scheduler reaplicar
// a apostas feitas depois do reparo sob o id antigo.
func (p *Postgres) RepointMatch(ctx context.Context, fromID, toID string) (int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO match_id_map (from_id, to_id, created_at)
		VALUES ($1,$2,NOW())
		ON CONFLICT (from_id) DO UPDATE SET to_id = EXCLUDED.to_id`,
		fromID, toID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE wagers SET match_id=$1 WHERE match_id=$2 AND status=$3`,
		toID, fromID, StatusPending)
	if err != nil {
		return 0, err
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	res, err = tx.ExecContext(ctx,
		`UPDATE predictions SET match_id=$1 WHERE match_id=$2 AND status=$3`,
		toID, fromID, StatusPending)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return moved + n, tx.Commit()
}

// ApplyIDMap reaplica mapeamentos de id registrados por RepointMatch: apostas
// e palpites PENDING sob qualquer id antigo mapeado para toID migram para ele
func (p *Postgres) ApplyIDMap(ctx context.Context, toID string) (int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE wagers SET match_id=$1
		WHERE status=$2 AND match_id IN (SELECT from_id FROM match_id_map WHERE to_id=$1)`,
		toID, StatusPending)
	if err != nil {
		return 0, err
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	res, err = tx.ExecContext(ctx, `
		UPDATE predictions SET match_id=$1
		WHERE status=$2 AND match_id IN (SELECT from_id FROM match_id_map WHERE to_id=$1)`,
		toID, StatusPending)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return moved + n, tx.Commit()
}

// MarkSettled persiste o marcador de partida liquidada
func (p *Postgres) MarkSettled(ctx context.Context, mark SettledMark) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO settled_matches (match_id, wagers_settled, settled_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (match_id) DO NOTHING`,
		mark.MatchID, mark.WagersSettled, mark.SettledAt)
	return err
}

// IsSettled consulta o marcador de liquidação de uma partida
func (p *Postgres) IsSettled(ctx context.Context, matchID string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx,
		`SELECT 1 FROM settled_matches WHERE match_id=$1`, matchID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// HasPending indica se a partida ainda tem apostas ou palpites PENDING
func (p *Postgres) HasPending(ctx context.Context, matchID string) (bool, error) {
	var one int
	err := p.db.QueryRowContext(ctx, `
		SELECT 1 WHERE EXISTS (SELECT 1 FROM wagers WHERE match_id=$1 AND status=$2)
		   OR EXISTS (SELECT 1 FROM predictions WHERE match_id=$1 AND status=$2)`,
		matchID, StatusPending).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// PendingWagers lista as apostas PENDING de uma partida
func (p *Postgres) PendingWagers(ctx context.Context, matchID string) ([]Wager, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, home_team, away_team, outcome_key,
		       stake, price, potential_payout, status, is_live, created_at, settled_at
		FROM wagers WHERE match_id=$1 AND status=$2
		ORDER BY created_at ASC`, matchID, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWagers(rows)
}

// GetWager busca uma aposta pelo id
func (p *Postgres) GetWager(ctx context.Context, wagerID string) (Wager, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, match_id, home_team, away_team, outcome_key,
		       stake, price, potential_payout, status, is_live, created_at, settled_at
		FROM wagers WHERE id=$1`, wagerID)
	var w Wager
	err := row.Scan(&w.ID, &w.UserID, &w.MatchID, &w.HomeTeam, &w.AwayTeam, &w.OutcomeKey,
		&w.Stake, &w.Price, &w.PotentialPayout, &w.Status, &w.IsLive, &w.CreatedAt, &w.SettledAt)
	if err == sql.ErrNoRows {
		return Wager{}, ErrNotFound
	}
	return w, err
}

// WagersByUser lista as apostas de um usuário, mais recentes primeiro
func (p *Postgres) WagersByUser(ctx context.Context, userID string, limit int) ([]Wager, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, home_team, away_team, outcome_key,
		       stake, price, potential_payout, status, is_live, created_at, settled_at
		FROM wagers WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWagers(rows)
}

func scanWagers(rows *sql.Rows) ([]Wager, error) {
	var out []Wager
	for rows.Next() {
		var w Wager
		if err := rows.Scan(&w.ID, &w.UserID, &w.MatchID, &w.HomeTeam, &w.AwayTeam, &w.OutcomeKey,
			&w.Stake, &w.Price, &w.PotentialPayout, &w.Status, &w.IsLive, &w.CreatedAt, &w.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// PendingPredictions lista os palpites PENDING de uma partida
func (p *Postgres) PendingPredictions(ctx context.Context, matchID string) ([]Prediction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, home_team, away_team, pick, status, points_delta, created_at, settled_at
		FROM predictions WHERE match_id=$1 AND status=$2
		ORDER BY created_at ASC`, matchID, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPredictions(rows)
}

// PredictionsByUser lista os palpites de um usuário, mais recentes primeiro
func (p *Postgres) PredictionsByUser(ctx context.Context, userID string, limit int) ([]Prediction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, home_team, away_team, pick, status, points_delta, created_at, settled_at
		FROM predictions WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPredictions(rows)
}

func scanPredictions(rows *sql.Rows) ([]Prediction, error) {
	var out []Prediction
	for rows.Next() {
		var pr Prediction
		if err := rows.Scan(&pr.ID, &pr.UserID, &pr.MatchID, &pr.HomeTeam, &pr.AwayTeam,
			&pr.Pick, &pr.Status, &pr.PointsDelta, &pr.CreatedAt, &pr.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// ListTransactions devolve o extrato do usuário, mais recente primeiro
func (p *Postgres) ListTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, kind, amount, balance_before, balance_after, reference, note, created_at
		FROM transactions WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.BalanceBefore, &t.BalanceAfter,
			&t.Reference, &t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Leaderboard devolve as contas ordenadas por saldo decrescente
func (p *Postgres) Leaderboard(ctx context.Context, limit int) ([]Account, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT user_id, balance, wager_remaining, wins, losses, profit, created_at, updated_at
		FROM accounts
		ORDER BY balance DESC, user_id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.UserID, &a.Balance, &a.WagerRemaining, &a.Wins, &a.Losses, &a.Profit,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) account(ctx context.Context, userID string) (Account, error) {
	var a Account
	err := p.db.QueryRowContext(ctx, `
		SELECT user_id, balance, wager_remaining, wins, losses, profit, created_at, updated_at
		FROM accounts WHERE user_id=$1`, userID).
		Scan(&a.UserID, &a.Balance, &a.WagerRemaining, &a.Wins, &a.Losses, &a.Profit, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return Account{}, ErrNotFound
	}
	return a, err
}
