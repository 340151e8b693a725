// Package service implements the authentication and account orchestration
// between the HTTP layer and the stores. Services hold no per-request
// state; everything lives in the database and in the tokens themselves.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kodbank/kodbank/internal/metrics"
	"github.com/kodbank/kodbank/internal/model"
	"github.com/kodbank/kodbank/internal/queue"
	"github.com/kodbank/kodbank/internal/repository"
	"github.com/kodbank/kodbank/internal/utils"
)

// StartingBalance is credited to every new account.
const StartingBalance = 100000

// UserStore is the subset of the user repository the services need.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, uid uint64) (*model.User, error)
	Balance(ctx context.Context, uid uint64) (float64, error)
}

// TokenStore is the session registry contract.
type TokenStore interface {
	Record(ctx context.Context, uid uint64, token string, expiry time.Time) error
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, uid uint64) error
}

// EventPublisher emits best-effort audit events.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.AuthEvent) error
}

// AuthService implements registration, login and logout.
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	events     EventPublisher
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(users UserStore, tokens TokenStore, events EventPublisher, jwtSecret string, tokenTTL time.Duration, bcryptCost int, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		events:     events,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// RegisterInput carries the registration fields. Role is optional; when
// present it may only name the Customer role.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Role     string
}

// Register creates a new customer account and returns its uid.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint64, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return 0, ErrMissingFields
	}
	// Role is never taken from the client: anything other than an explicit
	// Customer (or nothing) is a hard rejection, and the stored value is
	// always the server-side constant.
	if in.Role != "" && in.Role != model.RoleCustomer {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return 0, ErrInvalidRole
	}

	// Advisory pre-check for a friendly conflict answer. Two concurrent
	// registrations can both pass it; the unique indexes catch that at
	// insert time and surface the same conflict.
	taken, err := s.users.Exists(ctx, in.Username, in.Email)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return 0, ErrUserExists
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	uid, err := s.users.Create(ctx, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         model.RoleCustomer,
		Balance:      StartingBalance,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return 0, ErrUserExists
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	s.publish(ctx, queue.EventUserRegistered, uid, in.Username)
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return uid, nil
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords produce the identical ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (utils.SessionToken, model.PublicUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return utils.SessionToken{}, model.PublicUser{}, ErrMissingFields
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return utils.SessionToken{}, model.PublicUser{}, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return utils.SessionToken{}, model.PublicUser{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return utils.SessionToken{}, model.PublicUser{}, ErrInvalidCredentials
	}

	tok, err := utils.IssueToken(s.jwtSecret, u.UID, u.Username, u.Role, s.tokenTTL)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return utils.SessionToken{}, model.PublicUser{}, err
	}

	// The registry row is audit data. The token verifies by signature
	// alone, so a failed insert must not abort the login.
	if err := s.tokens.Record(ctx, u.UID, tok.Token, tok.Expiry); err != nil {
		s.log.Error().Err(err).Uint64("uid", u.UID).Msg("session registry insert failed")
	}

	s.publish(ctx, queue.EventUserLogin, u.UID, u.Username)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return tok, u.Public(), nil
}

// Logout revokes the registry row for the presented token. The token
// itself stays cryptographically valid until expiry; revocation only
// removes it from the audit registry and the response tells the client to
// discard it.
func (s *AuthService) Logout(ctx context.Context, uid uint64, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	s.publish(ctx, queue.EventUserLogout, uid, "")
	return nil
}

func (s *AuthService) publish(ctx context.Context, kind string, uid uint64, username string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, queue.AuthEvent{
		Kind:       kind,
		UID:        uid,
		Username:   username,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
