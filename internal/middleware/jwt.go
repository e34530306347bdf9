package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework for middleware and handlers

	"campus-canteen/internal/utils" // token parsing
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject (email) and role claims into
// the request context.  The secret must match the one used when issuing
// tokens.  Handlers downstream read the values via c.Get("email") and
// c.Get("role").  Failures yield 401 with the standard JSON envelope.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			email, role, err := utils.ParseAccessToken(secret, raw)
			if err != nil || email == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("email", email)
			c.Set("role", role)
			return next(c)
		}
	}
}
