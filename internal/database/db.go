// Package database handles the initialization and connection to the SQLite db
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultPath returns the default database location, ~/.tablero/board.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tablero", "board.db"), nil
}

// InitDB opens (creating if necessary) the SQLite database at dbPath and
// runs migrations. An empty dbPath uses DefaultPath.
func InitDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (required for CASCADE deletions)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		closeOnInitError(db, "enable foreign keys", err)
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		closeOnInitError(db, "enable WAL mode", err)
		return nil, err
	}

	// Set busy timeout to 5 seconds (SQLite will retry for this duration)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		closeOnInitError(db, "set busy timeout", err)
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		closeOnInitError(db, "ping", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// Configure connection pool to reduce contention
	db.SetMaxOpenConns(1) // SQLite benefits from a single writer connection
	db.SetMaxIdleConns(1)

	if err := runMigrations(ctx, db); err != nil {
		closeOnInitError(db, "run migrations", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func closeOnInitError(db *sql.DB, step string, err error) {
	slog.Error("database init failed", "step", step, "error", err)
	if closeErr := db.Close(); closeErr != nil {
		slog.Error("error closing db", "error", closeErr)
	}
}
