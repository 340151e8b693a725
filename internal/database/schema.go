package database

import (
	"context"
	"database/sql"
)

// InitSchema creates the tables the service needs if they do not exist.
// Both the username and email columns carry uniqueness constraints; the
// insert path relies on them as the last line of defense against
// concurrent duplicate registrations.
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid INT NOT NULL AUTO_INCREMENT,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(100) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			balance DECIMAL(10,2) NOT NULL DEFAULT 100000,
			phone VARCHAR(20) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'Customer',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (uid)
		)`,
		`CREATE TABLE IF NOT EXISTS user_tokens (
			tid INT NOT NULL AUTO_INCREMENT,
			token LONGTEXT NOT NULL,
			uid INT NOT NULL,
			expiry DATETIME NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (tid),
			FOREIGN KEY (uid) REFERENCES users(uid) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
