package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kodbank/kodbank/internal/config"
	"github.com/kodbank/kodbank/internal/database"
	"github.com/kodbank/kodbank/internal/handler"
	"github.com/kodbank/kodbank/internal/queue"
	"github.com/kodbank/kodbank/internal/repository"
	"github.com/kodbank/kodbank/internal/router"
	"github.com/kodbank/kodbank/internal/service"
	"github.com/kodbank/kodbank/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.Env != "prod", nil)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.InitSchema(ctx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("schema init failed")
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unreachable, rate limiting and balance cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := queue.NewPublisher(cfg.RabbitURL, log)

	// Registry rows are audit data; expired ones are swept in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := tokens.DeleteExpired(ctx); err != nil {
				log.Error().Err(err).Msg("expired token sweep failed")
			} else if n > 0 {
				log.Info().Int64("rows", n).Msg("expired tokens swept")
			}
			cancel()
		}
	}()

	authSvc := service.NewAuthService(users, tokens, events, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, log)
	acctSvc := service.NewAccountService(users, rdb, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.Register(e, cfg, rdb,
		handler.NewAuthHandler(authSvc, cfg.Env == "prod"),
		handler.NewUserHandler(acctSvc))

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
