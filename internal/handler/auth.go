package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kodbank/kodbank/internal/middleware"
	"github.com/kodbank/kodbank/internal/model"
	"github.com/kodbank/kodbank/internal/service"
	"github.com/kodbank/kodbank/internal/utils"
)

// Authenticator is the slice of AuthService the handlers use.
type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (uint64, error)
	Login(ctx context.Context, username, password string) (utils.SessionToken, model.PublicUser, error)
	Logout(ctx context.Context, uid uint64, token string) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth   Authenticator
	Secure bool // mark the token cookie Secure (prod)
}

func NewAuthHandler(auth Authenticator, secure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, Secure: secure}
}

type registerReq struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new customer account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Please provide all required fields.")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	uid, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return fail(c, http.StatusBadRequest, "Please provide all required fields.")
		case errors.Is(err, service.ErrInvalidRole):
			return fail(c, http.StatusBadRequest, "Only Customer role is allowed.")
		case errors.Is(err, service.ErrUserExists):
			return fail(c, http.StatusConflict, "Username or email already exists.")
		default:
			return fail(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Registration successful! Please login.",
		"userId":  uid,
	})
}

// Login verifies credentials and hands out a session token, both in the
// body and as an HttpOnly cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Please provide username and password.")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Please provide username and password.")
	}

	tok, user, err := h.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return fail(c, http.StatusBadRequest, "Please provide username and password.")
		case errors.Is(err, service.ErrInvalidCredentials):
			return fail(c, http.StatusUnauthorized, "Invalid username or password.")
		default:
			return fail(c, http.StatusInternalServerError, "Login failed. Please try again.")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Expiry,
		MaxAge:   int(time.Until(tok.Expiry) / time.Second),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful!",
		"token":   tok.Token,
		"user": echo.Map{
			"uid":      user.UID,
			"username": user.Username,
			"role":     user.Role,
			"balance":  user.Balance,
		},
	})
}

// Logout revokes the presented token's registry row and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)
	token, _ := c.Get(middleware.CtxToken).(string)

	if err := h.Auth.Logout(c.Request().Context(), uid, token); err != nil {
		return fail(c, http.StatusInternalServerError, "Logout failed.")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logout successful!",
	})
}
