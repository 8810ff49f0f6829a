package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/position"
)

// withTx executes a function within a database transaction.
// It automatically handles begin, rollback on error, and commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// applyPositionUpdates writes a planner's updates against the given table.
// Each update is an independent write; order does not matter.
func applyPositionUpdates(ctx context.Context, tx *sql.Tx, table string, updates []position.Update) error {
	for _, u := range updates {
		query := fmt.Sprintf("UPDATE %s SET position = ? WHERE id = ?", table)
		if _, err := tx.ExecContext(ctx, query, u.Position, u.ID); err != nil {
			return fmt.Errorf("failed to update position of %s %d: %w", table, u.ID, err)
		}
	}
	return nil
}

// bumpColumnVersion increments a column's reorder version inside a move
// transaction.
func bumpColumnVersion(ctx context.Context, tx *sql.Tx, columnID int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE columns SET version = version + 1 WHERE id = ?", columnID)
	return err
}

// nullableTime converts a *time.Time to a driver-friendly value.
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// scanNullTime converts a scanned sql.NullTime back to a *time.Time.
func scanNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// notFoundIfNoRows maps sql.ErrNoRows onto the shared NotFound sentinel.
// Ownership-scoped queries use it so that foreign rows and missing rows are
// indistinguishable to the caller.
func notFoundIfNoRows(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return err
}
