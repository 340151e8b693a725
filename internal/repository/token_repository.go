package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo is the session registry: an audit record of issued tokens per
// user. Tokens are self-verifying, so a missing row never invalidates a
// token; the registry exists for audit and for server-side revocation on
// logout.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Record inserts an audit row for an issued token.
func (r *TokenRepo) Record(ctx context.Context, uid uint64, token string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_tokens (token, uid, expiry) VALUES (?,?,?)",
		token, uid, expiry)
	return err
}

// Revoke deletes the registry row for a specific token.
func (r *TokenRepo) Revoke(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_tokens WHERE token=?", token)
	return err
}

// RevokeAllForUser deletes every registry row belonging to a user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, uid uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_tokens WHERE uid=?", uid)
	return err
}

// DeleteExpired removes rows whose expiry has passed. Intended for
// periodic housekeeping; the verifier never consults the registry.
func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_tokens WHERE expiry < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
