package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedByFirstMatchWins(t *testing.T) {
	// The GET menu rule precedes the admin-only menu rule, so a student
	// can read the menu but not write to it.
	assert.True(t, allowedBy(DefaultAccessRules, http.MethodGet, "/dailyitems", "STUDENT"))
	assert.True(t, allowedBy(DefaultAccessRules, http.MethodGet, "/dailyitems/42", "STUDENT"))
	assert.False(t, allowedBy(DefaultAccessRules, http.MethodPost, "/dailyitems/42", "STUDENT"))
	assert.False(t, allowedBy(DefaultAccessRules, http.MethodDelete, "/dailyitems/all", "STUDENT"))
	assert.True(t, allowedBy(DefaultAccessRules, http.MethodDelete, "/dailyitems/all", "ADMIN"))
}

func TestAllowedByAdminSurfaces(t *testing.T) {
	assert.False(t, allowedBy(DefaultAccessRules, http.MethodGet, "/items", "STUDENT"))
	assert.True(t, allowedBy(DefaultAccessRules, http.MethodGet, "/items", "ADMIN"))
	assert.False(t, allowedBy(DefaultAccessRules, http.MethodGet, "/admin/students", "STUDENT"))
	assert.True(t, allowedBy(DefaultAccessRules, http.MethodGet, "/admin/students", "ADMIN"))
}

func TestAllowedBySharedSurfaces(t *testing.T) {
	for _, path := range []string{"/orders/pending", "/recharge", "/student/7"} {
		assert.True(t, allowedBy(DefaultAccessRules, http.MethodGet, path, "STUDENT"), path)
		assert.True(t, allowedBy(DefaultAccessRules, http.MethodGet, path, "ADMIN"), path)
	}
}

func TestAllowedByNoMatchDenies(t *testing.T) {
	assert.False(t, allowedBy(DefaultAccessRules, http.MethodGet, "/unknown", "ADMIN"))
	assert.False(t, allowedBy(DefaultAccessRules, http.MethodGet, "/dailyitemsfoo", "ADMIN"))
}

func TestAuthorizeMiddleware(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	mw := Authorize(DefaultAccessRules)

	run := func(method, path, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != "" {
			c.Set("role", role)
		}
		require.NoError(t, mw(next)(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run(http.MethodGet, "/dailyitems", "STUDENT").Code)
	assert.Equal(t, http.StatusForbidden, run(http.MethodPost, "/items", "STUDENT").Code)
	assert.Equal(t, http.StatusForbidden, run(http.MethodGet, "/dailyitems", "").Code)
}
