package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveTxConsumesStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE item_daily SET sold_qty").
		WithArgs(3, 11, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	_, err = NewDailyItemRepo(db).ReserveTx(ctx, tx, 11, 3)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The conditional UPDATE must refuse a reservation that would push
// sold_qty past init_qty, and the error carries the quantity that is
// still available.
func TestReserveTxRefusesOversell(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE item_daily SET sold_qty").
		WithArgs(5, 11, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT init_qty - sold_qty FROM item_daily").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(2))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	available, err := NewDailyItemRepo(db).ReserveTx(ctx, tx, 11, 5)
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, available)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureTodayRefreshesExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE item_daily SET init_qty").
		WithArgs(25, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := NewDailyItemRepo(db).EnsureToday(context.Background(), 4, 25)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureTodayInsertsWhenAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE item_daily SET init_qty").
		WithArgs(25, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO item_daily").
		WithArgs(4, 25).
		WillReturnResult(sqlmock.NewResult(31, 1))

	created, err := NewDailyItemRepo(db).EnsureToday(context.Background(), 4, 25)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureTodayReportsInsertRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE item_daily SET init_qty").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO item_daily").
		WillReturnError(errors.New("Error 1062: Duplicate entry '4-2026-08-28'"))

	_, err = NewDailyItemRepo(db).EnsureToday(context.Background(), 4, 25)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetAllReportsDeletedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM item_daily").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM item_daily").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewDailyItemRepo(db)
	n, err := repo.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
