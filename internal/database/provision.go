package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// EnsureDatabaseExists connects to the maintenance database on the same server
// and creates cfg.Database when it is missing. Returns true when it created it.
func EnsureDatabaseExists(ctx context.Context, cfg *Config, logger *slog.Logger) (bool, error) {
	if err := cfg.Validate(); err != nil {
		return false, fmt.Errorf("invalid config: %w", err)
	}
	if err := validateDatabaseName(cfg.Database); err != nil {
		return false, fmt.Errorf("invalid database name: %w", err)
	}

	admin := *cfg
	admin.Database = "postgres"

	conn, err := pgx.Connect(ctx, admin.ConnectionString())
	if err != nil {
		return false, fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.Database,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		logger.Debug("database already exists", "database", cfg.Database)
		return false, nil
	}

	// Identifiers cannot be bound as parameters
	createSQL := fmt.Sprintf("CREATE DATABASE %s OWNER %s",
		pgx.Identifier{cfg.Database}.Sanitize(), pgx.Identifier{cfg.User}.Sanitize())
	if _, err := conn.Exec(ctx, createSQL); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", cfg.Database, err)
	}

	logger.Info("created database", "database", cfg.Database)
	return true, nil
}

// validateDatabaseName accepts a letter or underscore followed by letters, digits or underscores
func validateDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	for i, ch := range name {
		letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
		if i == 0 && !letter {
			return fmt.Errorf("database name must start with a letter or underscore")
		}
		if !letter && !(ch >= '0' && ch <= '9') {
			return fmt.Errorf("database name can only contain letters, numbers, and underscores")
		}
	}
	return nil
}
