package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPotentialPayout(t *testing.T) {
	assert.Equal(t, int64(18), PotentialPayout(10, 1.85)) // floor de 18.5
	assert.Equal(t, int64(20), PotentialPayout(10, 2.0))
	assert.Equal(t, int64(1), PotentialPayout(1, 1.99))
}

func TestSellValue(t *testing.T) {
	assert.Equal(t, int64(5), SellValue(10))
	assert.Equal(t, int64(5), SellValue(11)) // floor
	assert.Equal(t, int64(1), SellValue(1))  // piso em 1
	assert.Equal(t, int64(1), SellValue(2))
}

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestDepositCreditsBalanceAndRollover(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(50, 10))
	// affectWager: o depósito também entra no rollover pendente
	mock.ExpectExec(`UPDATE accounts SET balance = balance \+ \$1, wager_remaining = wager_remaining \+ \$2`).
		WithArgs(int64(25), int64(25), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT user_id, balance, wager_remaining`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "balance", "wager_remaining", "wins", "losses", "profit", "created_at", "updated_at"}).
			AddRow("u1", 75, 35, 0, 0, 0, now, now))

	acc, err := repo.Deposit(context.Background(), "u1", 25, true, "operator credit")
	require.NoError(t, err)
	assert.Equal(t, int64(75), acc.Balance)
	assert.Equal(t, int64(35), acc.WagerRemaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositWithoutRolloverKeepsWagerRemaining(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(50, 10))
	mock.ExpectExec(`UPDATE accounts SET balance = balance \+ \$1, wager_remaining = wager_remaining \+ \$2`).
		WithArgs(int64(25), int64(0), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT user_id, balance, wager_remaining`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "balance", "wager_remaining", "wins", "losses", "profit", "created_at", "updated_at"}).
			AddRow("u1", 75, 10, 0, 0, 0, now, now))

	acc, err := repo.Deposit(context.Background(), "u1", 25, false, "gift")
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.WagerRemaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	repo, _ := newMock(t)
	_, err := repo.Deposit(context.Background(), "u1", 0, true, "")
	assert.ErrorIs(t, err, ErrInvalidStake)
}

func TestPlaceWagerDebitsAndBurnsRollover(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(50, 30))
	// stake 40 > remaining 30: abate só 30
	mock.ExpectExec(`UPDATE accounts SET balance = balance - \$1, wager_remaining = wager_remaining - \$2`).
		WithArgs(int64(40), int64(30), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wagers`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, err := repo.PlaceWager(context.Background(), Wager{
		UserID:     "u1",
		MatchID:    "m1",
		OutcomeKey: "total_over_2.5",
		Stake:      40,
		Price:      1.85,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, w.Status)
	assert.Equal(t, int64(74), w.PotentialPayout) // floor(40*1.85)
	assert.NotEmpty(t, w.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceWagerInsufficientBalance(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(10, 10))
	mock.ExpectRollback()

	_, err := repo.PlaceWager(context.Background(), Wager{UserID: "u1", Stake: 40, Price: 2.0})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceWagerRejectsNonPositiveStake(t *testing.T) {
	repo, _ := newMock(t)
	_, err := repo.PlaceWager(context.Background(), Wager{UserID: "u1", Stake: 0, Price: 2.0})
	assert.ErrorIs(t, err, ErrInvalidStake)
}

func TestSellWagerOnlyWhilePending(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT stake, status FROM wagers`).
		WithArgs("w1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"stake", "status"}).AddRow(10, StatusWon))
	mock.ExpectRollback()

	_, err := repo.SellWager(context.Background(), "w1", "u1")
	assert.ErrorIs(t, err, ErrWagerNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellWagerCreditsHalfStake(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT stake, status FROM wagers`).
		WithArgs("w1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"stake", "status"}).AddRow(11, StatusPending))
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(100, 0))
	mock.ExpectExec(`UPDATE wagers SET status=`).
		WithArgs(StatusSold, "w1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts SET balance = balance \+ \$1`).
		WithArgs(int64(5), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	refund, err := repo.SellWager(context.Background(), "w1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), refund)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleWonCreditsFullPayout(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id, status, stake, potential_payout FROM wagers`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status", "stake", "potential_payout"}).
			AddRow("u1", StatusPending, 10, 18))
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(40, 0))
	mock.ExpectExec(`UPDATE wagers SET status=`).
		WithArgs(StatusWon, "w1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts SET balance = balance \+ \$1`).
		WithArgs(int64(18), int64(1), int64(0), int64(8), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SettleWon(context.Background(), "w1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleIdempotentOnSettledWager(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id, status, stake, potential_payout FROM wagers`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status", "stake", "potential_payout"}).
			AddRow("u1", StatusLost, 10, 18))
	mock.ExpectRollback()

	err := repo.SettleWon(context.Background(), "w1")
	assert.ErrorIs(t, err, ErrWagerNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlePredictionFineClampedAtZero(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT user_id, status FROM predictions`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow("u1", StatusPending))
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(4, 0))
	// multa de 10 limitada aos 4 pontos existentes
	mock.ExpectExec(`UPDATE predictions SET status=`).
		WithArgs(StatusLost, int64(-4), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts SET balance = balance \+ \$1`).
		WithArgs(int64(-4), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SettlePrediction(context.Background(), "p1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchasePrizeRequiresZeroRollover(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance, wager_remaining FROM accounts`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"balance", "wager_remaining"}).AddRow(200, 15))
	mock.ExpectRollback()

	_, err := repo.PurchasePrize(context.Background(), "u1", "shirt", 100)
	assert.ErrorIs(t, err, ErrPlaythroughPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}
