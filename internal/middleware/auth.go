// Package middleware provides shared request processing for handlers.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kodbank/kodbank/internal/metrics"
	"github.com/kodbank/kodbank/internal/utils"
)

// Context keys set by the guard for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxToken    = "token"
)

// CookieName is the HTTP cookie the login handler sets and the guard reads.
const CookieName = "token"

// The dashboard client branches on the "expired"/"Invalid" substrings of
// these messages to decide whether to force a re-login, so their wording
// is part of the contract.
const (
	msgNoToken      = "No token provided. Please login first."
	msgTokenExpired = "Token expired. Please login again."
	msgTokenInvalid = "Invalid token. Please login again."
)

// TokenGuard verifies the session token and injects the resolved identity
// into the request context. The Authorization header takes precedence over
// the token cookie when both are present.
func TokenGuard(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return reject(c, msgNoToken)
			}

			claims, err := utils.VerifyToken(secret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					metrics.TokenRejectionsTotal.WithLabelValues("expired").Inc()
					return reject(c, msgTokenExpired)
				}
				metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				return reject(c, msgTokenInvalid)
			}

			c.Set(CtxUserID, claims.UID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxToken, raw)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	return ""
}

func reject(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": msg})
}
