package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kodbank/kodbank/internal/model"
	"github.com/kodbank/kodbank/internal/repository"
)

// balanceCacheTTL bounds how stale a cached balance can get; balances are
// mutated outside this service, so the cache is only ever a short window.
const balanceCacheTTL = 30 * time.Second

// AccountService serves balance and profile reads for authenticated users.
type AccountService struct {
	users UserStore
	rdb   *redis.Client // nil disables caching
	log   zerolog.Logger
}

func NewAccountService(users UserStore, rdb *redis.Client, log zerolog.Logger) *AccountService {
	return &AccountService{users: users, rdb: rdb, log: log}
}

// Balance returns the user's balance, from the redis cache when fresh.
// Cache failures fall through to MySQL silently.
func (s *AccountService) Balance(ctx context.Context, uid uint64) (float64, error) {
	key := "balance:" + strconv.FormatUint(uid, 10)
	if s.rdb != nil {
		if v, err := s.rdb.Get(ctx, key).Float64(); err == nil {
			return v, nil
		}
	}

	balance, err := s.users.Balance(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, balance, balanceCacheTTL).Err(); err != nil {
			s.log.Debug().Err(err).Uint64("uid", uid).Msg("balance cache set failed")
		}
	}
	return balance, nil
}

// Profile returns the safe projection of the user's row.
func (s *AccountService) Profile(ctx context.Context, uid uint64) (model.PublicUser, error) {
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PublicUser{}, ErrUserNotFound
		}
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}
