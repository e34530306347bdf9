package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-canteen/internal/config"
)

func menuKeyFor(cfg config.CacheConfig, target string) string {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/dailyitems")
	return menuCacheKey(cfg, c)
}

func TestMenuCacheKeyStable(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "menu", KeyStrategy: "route_query"}
	a := menuKeyFor(cfg, "/dailyitems?x=1")
	b := menuKeyFor(cfg, "/dailyitems?x=1")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "menu:")
}

func TestMenuCacheKeyQuerySensitivity(t *testing.T) {
	withQuery := config.CacheConfig{Prefix: "menu", KeyStrategy: "route_query"}
	assert.NotEqual(t, menuKeyFor(withQuery, "/dailyitems?x=1"), menuKeyFor(withQuery, "/dailyitems?x=2"))

	routeOnly := config.CacheConfig{Prefix: "menu", KeyStrategy: "route"}
	assert.Equal(t, menuKeyFor(routeOnly, "/dailyitems?x=1"), menuKeyFor(routeOnly, "/dailyitems?x=2"))
}

func TestMenuCacheDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dailyitems", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := MenuCache(config.CacheConfig{Enabled: false}, nil)
	next := func(c echo.Context) error { return c.String(http.StatusOK, "fresh") }
	require.NoError(t, mw(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
