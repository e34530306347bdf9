package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionRef(t *testing.T) {
	ref := newTransactionRef("WALLET")
	require.True(t, strings.HasPrefix(ref, "TXN-WALLET-"))

	_, err := uuid.Parse(strings.TrimPrefix(ref, "TXN-WALLET-"))
	assert.NoError(t, err)
}

func TestNewTransactionRefUnique(t *testing.T) {
	assert.NotEqual(t, newTransactionRef("WALLET"), newTransactionRef("WALLET"))
}

// Body validation rejects before any transaction starts, so no
// repositories are needed.
func postOrder(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders/1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := &OrderHandler{}
	require.NoError(t, h.Place(c))
	return rec
}

func TestPlaceRejectsEmptyCart(t *testing.T) {
	rec := postOrder(t, `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceRejectsInvalidLines(t *testing.T) {
	rec := postOrder(t, `{"items":[{"itemId":0,"qtyOrdered":2}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postOrder(t, `{"items":[{"itemId":3,"qtyOrdered":0}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
