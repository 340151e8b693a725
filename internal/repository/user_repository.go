package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/kodbank/kodbank/internal/model"
)

// MySQL error number for a duplicate key on a unique index.
const mysqlDupEntry = 1062

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user row and returns the generated uid. The password
// must already be hashed by the caller. A uniqueness violation on either
// natural key surfaces as ErrDuplicateUser; this is the authoritative
// duplicate check, the pre-insert existence lookup is only advisory.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, phone, role, balance) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.Phone, u.Role, u.Balance)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return 0, ErrDuplicateUser
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Exists reports whether a row already uses the given username or email.
func (r *UserRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	var uid uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT uid FROM users WHERE username=? OR email=? LIMIT 1",
		username, email).Scan(&uid)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getWhere(ctx, "username=?", strings.TrimSpace(username))
}

// GetByID fetches a user by uid.
func (r *UserRepo) GetByID(ctx context.Context, uid uint64) (*model.User, error) {
	return r.getWhere(ctx, "uid=?", uid)
}

func (r *UserRepo) getWhere(ctx context.Context, cond string, arg any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT uid,username,email,password_hash,balance,phone,role,created_at FROM users WHERE "+cond+" LIMIT 1",
		arg).Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash, &u.Balance, &u.Phone, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Balance reads the single balance column for a user.
func (r *UserRepo) Balance(ctx context.Context, uid uint64) (float64, error) {
	var balance float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT balance FROM users WHERE uid=? LIMIT 1", uid).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}
