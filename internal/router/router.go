// Package router wires handlers, guards and the limiter onto the Echo
// instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/kodbank/kodbank/internal/config"
	"github.com/kodbank/kodbank/internal/handler"
	"github.com/kodbank/kodbank/internal/middleware"
)

// Register mounts every route. The auth group carries the per-IP rate
// limiter; the user group and logout sit behind the token guard.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, a *handler.AuthHandler, u *handler.UserHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	guard := middleware.TokenGuard(cfg.JWTSecret)
	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	auth := e.Group("/auth")
	auth.POST("/register", a.Register, limiter)
	auth.POST("/login", a.Login, limiter)
	auth.POST("/logout", a.Logout, guard)

	user := e.Group("/user", guard)
	user.GET("/balance", u.Balance)
	user.GET("/profile", u.Profile)
}
