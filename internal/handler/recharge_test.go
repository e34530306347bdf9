package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation runs before any repository access, so a handler without
// repositories is enough to exercise the reject paths.
func postRecharge(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/recharge", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := &RechargeHandler{}
	require.NoError(t, h.Add(c))
	return rec
}

func TestRechargeRejectsNonPositiveAmount(t *testing.T) {
	rec := postRecharge(t, `{"studentId":1,"amountAdded":0,"paymentId":"pay_1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postRecharge(t, `{"studentId":1,"amountAdded":-5,"paymentId":"pay_1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRechargeRejectsBlankPaymentID(t *testing.T) {
	rec := postRecharge(t, `{"studentId":1,"amountAdded":50,"paymentId":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRechargeRejectsMissingStudent(t *testing.T) {
	rec := postRecharge(t, `{"amountAdded":50,"paymentId":"pay_1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
