package middleware

// rules.go expresses the route authorization policy as an ordered list
// of (method, path pattern, allowed roles) entries evaluated first
// match wins.  This replaces scattering role checks across handlers:
// the whole policy is one table, and reordering it is the only way to
// change precedence.

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"campus-canteen/internal/model"
)

// AccessRule allows the named roles on requests matching Method and
// Pattern.  An empty Method matches every HTTP method.  Pattern is a
// path prefix; a trailing "*" is implied, so "/dailyitems" covers
// "/dailyitems/42" as well.
type AccessRule struct {
	Method  string
	Pattern string
	Roles   []string
}

// DefaultAccessRules is the canteen policy: menu reads are open to both
// roles, menu writes and catalog/admin surfaces are admin-only, and the
// student-facing resources accept both so admins can manage them too.
// Order matters: the GET /dailyitems rule must precede the admin-only
// catch-all for /dailyitems.
var DefaultAccessRules = []AccessRule{
	{Method: http.MethodGet, Pattern: "/dailyitems", Roles: []string{model.RoleStudent, model.RoleAdmin}},
	{Pattern: "/dailyitems", Roles: []string{model.RoleAdmin}},
	{Pattern: "/items", Roles: []string{model.RoleAdmin}},
	{Pattern: "/admin", Roles: []string{model.RoleAdmin}},
	{Pattern: "/student", Roles: []string{model.RoleStudent, model.RoleAdmin}},
	{Pattern: "/recharge", Roles: []string{model.RoleStudent, model.RoleAdmin}},
	{Pattern: "/orders", Roles: []string{model.RoleStudent, model.RoleAdmin}},
}

func (r AccessRule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if path == r.Pattern {
		return true
	}
	return strings.HasPrefix(path, r.Pattern+"/")
}

// allowedBy returns whether role may perform method on path under the
// given rules.  The first matching rule decides; no match denies.
func allowedBy(rules []AccessRule, method, path, role string) bool {
	for _, rule := range rules {
		if !rule.matches(method, path) {
			continue
		}
		for _, allowed := range rule.Roles {
			if allowed == role {
				return true
			}
		}
		return false
	}
	return false
}

// Authorize returns a middleware enforcing the rule table.  It assumes
// JWTAuth already stored the role in the context.  Requests whose role
// is missing or not allowed get 403.
func Authorize(rules []AccessRule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowedBy(rules, c.Request().Method, c.Request().URL.Path, role) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
