package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kodbank/kodbank/internal/middleware"
	"github.com/kodbank/kodbank/internal/model"
	"github.com/kodbank/kodbank/internal/service"
)

// AccountReader is the slice of AccountService the handlers use.
type AccountReader interface {
	Balance(ctx context.Context, uid uint64) (float64, error)
	Profile(ctx context.Context, uid uint64) (model.PublicUser, error)
}

// UserHandler serves the authenticated balance and profile reads.
type UserHandler struct {
	Accounts AccountReader
}

func NewUserHandler(accounts AccountReader) *UserHandler {
	return &UserHandler{Accounts: accounts}
}

// Balance returns the caller's current balance.
func (h *UserHandler) Balance(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)
	username, _ := c.Get(middleware.CtxUsername).(string)

	balance, err := h.Accounts.Balance(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "User not found.")
		}
		return fail(c, http.StatusInternalServerError, "Failed to fetch balance. Please try again.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"username": username,
		"balance":  balance,
	})
}

// Profile returns the caller's account details, password hash excluded.
func (h *UserHandler) Profile(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)

	user, err := h.Accounts.Profile(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "User not found.")
		}
		return fail(c, http.StatusInternalServerError, "Failed to fetch profile. Please try again.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}
