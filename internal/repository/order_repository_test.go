package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-canteen/internal/model"
)

func TestUpdateStatusMarksServed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT order_status FROM orders").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"order_status"}).AddRow(model.OrderStatusPending))
	mock.ExpectExec("UPDATE orders SET order_status").
		WithArgs(model.OrderStatusServed, true, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewOrderRepo(db).UpdateStatus(context.Background(), 4, model.OrderStatusServed)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A served order must not move back to PENDING; otherwise order_status
// and is_served would disagree.  No UPDATE may run at all.
func TestUpdateStatusRejectsServedRevert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT order_status FROM orders").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"order_status"}).AddRow(model.OrderStatusServed))

	err = NewOrderRepo(db).UpdateStatus(context.Background(), 4, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusServedStaysServed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT order_status FROM orders").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"order_status"}).AddRow(model.OrderStatusServed))
	mock.ExpectExec("UPDATE orders SET order_status").
		WithArgs(model.OrderStatusServed, true, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewOrderRepo(db).UpdateStatus(context.Background(), 4, model.OrderStatusServed)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT order_status FROM orders").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"order_status"}))

	err = NewOrderRepo(db).UpdateStatus(context.Background(), 99, model.OrderStatusServed)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
