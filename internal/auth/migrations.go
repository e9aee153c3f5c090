package auth

import (
	"context"
	"fmt"

	"medialog/internal/core"
)

// Migration001CreateAuthTables creates the users and tokens tables
var Migration001CreateAuthTables = core.Migration{
	Version:     1,
	Name:        "create_auth_tables",
	Description: "Create user accounts and authentication tokens",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash BLOB NOT NULL,
			activated BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tokens (
			hash BLOB PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expiry DATETIME NOT NULL,
			scope TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tokens_user_scope ON tokens(user_id, scope);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_tokens_user_scope;
		DROP TABLE IF EXISTS tokens;
		DROP TABLE IF EXISTS users;
	`,
}

// Migrate applies the auth schema
func Migrate(ctx context.Context, db *core.Database, logger *core.Logger) error {
	migrationService := core.NewMigrationService(db, logger)

	if err := migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if err := migrationService.ApplyMigration(ctx, Migration001CreateAuthTables); err != nil {
		return fmt.Errorf("failed to apply auth migration: %w", err)
	}

	return nil
}
