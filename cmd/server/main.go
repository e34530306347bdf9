package main // Entry point package

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"campus-canteen/internal/config"
	"campus-canteen/internal/database"
	"campus-canteen/internal/handler"
	"campus-canteen/internal/queue"
	"campus-canteen/internal/repository"
	"campus-canteen/internal/router"
	"campus-canteen/internal/scheduler"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := config.NewLogger()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	students := repository.NewStudentRepo(db)
	items := repository.NewItemRepo(db)
	daily := repository.NewDailyItemRepo(db)
	orders := repository.NewOrderRepo(db)
	recharges := repository.NewRechargeRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin failed")
	}
	if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin account created")
	}

	reset, err := scheduler.NewDailyReset(cfg.ResetCron, daily, log)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.ResetCron).Msg("invalid reset cron spec")
	}
	reset.Start()
	defer reset.Stop()

	go queue.StartOrderConsumer(log)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unreachable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, students),
		Students:  handler.NewStudentHandler(students),
		Items:     handler.NewItemHandler(items),
		Menu:      handler.NewMenuHandler(daily, items),
		Orders:    handler.NewOrderHandler(orders, daily, items, students),
		Recharges: handler.NewRechargeHandler(recharges, students),
	}, rdb)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
