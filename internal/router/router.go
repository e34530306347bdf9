// Package router wires handlers, authentication and the route policy
// onto an Echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"campus-canteen/internal/config"
	"campus-canteen/internal/handler"
	"campus-canteen/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Students  *handler.StudentHandler
	Items     *handler.ItemHandler
	Menu      *handler.MenuHandler
	Orders    *handler.OrderHandler
	Recharges *handler.RechargeHandler
}

// Register mounts all routes.  Login and registration stay public
// (rate limited); everything else sits behind JWT auth plus the ordered
// role policy in middleware.DefaultAccessRules.  Menu reads additionally
// pass through the Redis response cache.  rdb may be nil, which disables
// cache and rate limiting.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", handler.Health)

	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	e.POST("/student/register", h.Auth.StudentRegister, limit)
	e.POST("/student/login", h.Auth.StudentLogin, limit)
	e.POST("/admin/login", h.Auth.AdminLogin, limit)

	api := e.Group("")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	api.Use(middleware.Authorize(middleware.DefaultAccessRules))

	cache := middleware.MenuCache(config.LoadCacheConfig(), rdb)
	api.GET("/dailyitems", h.Menu.List, cache)
	api.GET("/dailyitems/:id", h.Menu.Get, cache)
	api.POST("/dailyitems/:id", h.Menu.Add)
	api.PUT("/dailyitems/:id", h.Menu.Update)
	api.DELETE("/dailyitems/all", h.Menu.DeleteAll)
	api.DELETE("/dailyitems/:id", h.Menu.Delete)

	api.GET("/items", h.Items.List)
	api.GET("/items/:id", h.Items.Get)
	api.POST("/items", h.Items.Create)
	api.PUT("/items/:id", h.Items.Update)
	api.DELETE("/items/:id", h.Items.Delete)

	// :id on the placement route is the student placing the order.
	api.POST("/orders/:id/orders", h.Orders.Place)
	api.PUT("/orders/:id/status", h.Orders.UpdateStatus)
	api.GET("/orders/pending", h.Orders.ListPending)
	api.GET("/orders/pending/count", h.Orders.CountPending)
	api.GET("/orders/served", h.Orders.ListServed)
	api.GET("/orders/served/count", h.Orders.CountServed)
	api.GET("/orders/completed", h.Orders.ListServed)
	api.GET("/orders/students/:id", h.Orders.ListByStudent)
	api.GET("/orders/:id", h.Orders.Get)

	api.POST("/recharge", h.Recharges.Add)
	api.GET("/recharge/students/:id", h.Recharges.ListByStudent)
	api.GET("/recharge/:tranId", h.Recharges.Get)
	api.PUT("/recharge/:tranId", h.Recharges.Update)
	api.DELETE("/recharge/:tranId", h.Recharges.Delete)

	api.GET("/student/:id", h.Students.Get)
	api.PUT("/student/:id", h.Students.Update)
	api.DELETE("/student/:id", h.Students.Delete)
	api.GET("/student/:id/balance", h.Students.GetBalance)
	api.PUT("/student/:id/balance", h.Students.SetBalance)
	api.PUT("/student/:id/password", h.Auth.ChangePassword)

	api.GET("/admin/students", h.Students.List)
	api.GET("/admin/totalstudents", h.Students.Count)
	api.POST("/admin/register/student", h.Auth.StudentRegister)
}
