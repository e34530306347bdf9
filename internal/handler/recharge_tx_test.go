package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-canteen/internal/repository"
)

func runRecharge(t *testing.T, h *RechargeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/recharge", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.Add(c))
	return rec
}

// The wallet credit and its history row commit together.
func TestRechargeCreditsAndRecordsTogether(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET balance = balance").
		WithArgs(int64(50), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO recharge_history").
		WithArgs(3, int64(50), "pay_9", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	h := NewRechargeHandler(repository.NewRechargeRepo(db), repository.NewStudentRepo(db))
	rec := runRecharge(t, h, `{"studentId":3,"amountAdded":50,"paymentId":"pay_9"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transactionId":7`)
	assert.Contains(t, rec.Body.String(), `"amountAdded":50`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A credit against an unknown student rolls back without writing any
// history row.
func TestRechargeRollsBackWhenStudentMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET balance = balance").
		WithArgs(int64(50), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	h := NewRechargeHandler(repository.NewRechargeRepo(db), repository.NewStudentRepo(db))
	rec := runRecharge(t, h, `{"studentId":99,"amountAdded":50,"paymentId":"pay_9"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
