package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		session_id TEXT UNIQUE,
		status TEXT NOT NULL,
		items JSONB NOT NULL DEFAULT '[]',
		total_amount BIGINT NOT NULL,
		currency TEXT NOT NULL,
		customer_email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS payment_settings (
		id TEXT PRIMARY KEY,
		singleton BOOLEAN NOT NULL DEFAULT TRUE UNIQUE CHECK (singleton),
		secret_key TEXT NOT NULL,
		publishable_key TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS email_settings (
		id TEXT PRIMARY KEY,
		singleton BOOLEAN NOT NULL DEFAULT TRUE UNIQUE CHECK (singleton),
		smtp_host TEXT NOT NULL,
		smtp_port INTEGER NOT NULL,
		username TEXT NOT NULL,
		password TEXT NOT NULL,
		sender TEXT NOT NULL,
		recipient TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit_amount BIGINT NOT NULL CHECK (unit_amount >= 0),
		currency TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	`CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables used by the storefront if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
