package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns all schema migrations in order
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create servers table",
			SQL: `
				CREATE TABLE IF NOT EXISTS servers (
					id VARCHAR(24) PRIMARY KEY,
					owner_id VARCHAR(24) NOT NULL,
					name TEXT NOT NULL DEFAULT ''
				);
			`,
		},
		{
			Version:     2,
			Description: "Create channels and channel_members tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS channels (
					id VARCHAR(24) PRIMARY KEY,
					kind VARCHAR(16) NOT NULL,
					owner_id VARCHAR(24) NOT NULL,
					server_id VARCHAR(24),
					section_id VARCHAR(24),
					permissions TEXT NOT NULL DEFAULT '{}'
				);

				CREATE TABLE IF NOT EXISTS channel_members (
					channel_id VARCHAR(24) NOT NULL,
					user_id VARCHAR(24) NOT NULL,
					PRIMARY KEY (channel_id, user_id)
				);

				CREATE INDEX IF NOT EXISTS idx_channels_server_id ON channels(server_id);
			`,
		},
		{
			Version:     3,
			Description: "Create sections and section_channels tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS sections (
					id VARCHAR(24) PRIMARY KEY,
					server_id VARCHAR(24) NOT NULL,
					permissions TEXT NOT NULL DEFAULT '{}'
				);

				CREATE TABLE IF NOT EXISTS section_channels (
					section_id VARCHAR(24) NOT NULL,
					channel_id VARCHAR(24) NOT NULL,
					PRIMARY KEY (section_id, channel_id)
				);
			`,
		},
		{
			Version:     4,
			Description: "Create roles and server_members tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS roles (
					id VARCHAR(24) PRIMARY KEY,
					server_id VARCHAR(24) NOT NULL,
					name TEXT NOT NULL,
					permissions TEXT NOT NULL DEFAULT '[]'
				);

				CREATE TABLE IF NOT EXISTS server_members (
					server_id VARCHAR(24) NOT NULL,
					user_id VARCHAR(24) NOT NULL,
					role_ids TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (server_id, user_id)
				);

				CREATE INDEX IF NOT EXISTS idx_roles_server_id ON roles(server_id);
			`,
		},
	}
}

// Migrate applies all pending migrations
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range Migrations() {
		if m.Version <= current {
			continue
		}
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`, m.Version, m.Description); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}
