package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/position"
)

// ============================================================================
// Column Operations
// ============================================================================

// ColumnRepo provides data access for columns. All reads and writes are
// scoped to the owner of the enclosing board.
type ColumnRepo struct {
	db *sql.DB
}

const columnFields = "c.id, c.board_id, c.title, c.position, c.marks_started, c.marks_completed, c.version, c.created_at"

func scanColumn(row interface{ Scan(...interface{}) error }) (*models.Column, error) {
	col := &models.Column{}
	err := row.Scan(
		&col.ID, &col.BoardID, &col.Title, &col.Position,
		&col.MarksStarted, &col.MarksCompleted, &col.Version, &col.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return col, nil
}

// Create appends a new column at the end of the board's column order.
// The insert and the position computation run in one transaction so the
// dense invariant holds even under concurrent creates.
func (r *ColumnRepo) Create(ctx context.Context, ownerID string, boardID int, title string, marksStarted, marksCompleted bool) (*models.Column, error) {
	var created *models.Column

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Ownership check: the board must belong to the caller.
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM boards WHERE id = ? AND owner_id = ?",
			boardID, ownerID,
		).Scan(&exists)
		if err != nil {
			return notFoundIfNoRows(err, "board")
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM columns WHERE board_id = ?", boardID,
		).Scan(&count); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO columns (board_id, title, position, marks_started, marks_completed)
			 VALUES (?, ?, ?, ?, ?)`,
			boardID, title, count, marksStarted, marksCompleted,
		)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}

		created, err = scanColumn(tx.QueryRowContext(ctx,
			"SELECT "+columnFields+" FROM columns c WHERE c.id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByBoard retrieves all columns of a board in display order.
func (r *ColumnRepo) GetByBoard(ctx context.Context, ownerID string, boardID int) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columnFields+`
		 FROM columns c
		 JOIN boards b ON b.id = c.board_id
		 WHERE c.board_id = ? AND b.owner_id = ?
		 ORDER BY c.position`,
		boardID, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*models.Column
	for rows.Next() {
		col, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

// GetByID retrieves a single column owned (through its board) by ownerID.
func (r *ColumnRepo) GetByID(ctx context.Context, ownerID string, id int) (*models.Column, error) {
	col, err := scanColumn(r.db.QueryRowContext(ctx,
		`SELECT `+columnFields+`
		 FROM columns c
		 JOIN boards b ON b.id = c.board_id
		 WHERE c.id = ? AND b.owner_id = ?`,
		id, ownerID,
	))
	if err != nil {
		return nil, notFoundIfNoRows(err, "column")
	}
	return col, nil
}

// Rename updates a column's title.
func (r *ColumnRepo) Rename(ctx context.Context, ownerID string, id int, title string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE columns SET title = ?
		 WHERE id = ? AND board_id IN (SELECT id FROM boards WHERE owner_id = ?)`,
		title, id, ownerID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundIfNoRows(sql.ErrNoRows, "column")
	}
	return nil
}

// Reorder moves a column to targetIndex among its board's columns. The
// ownership check, the current-position read, the sibling reindex, and the
// board version bump all happen inside one transaction.
//
// baseVersion, when non-zero, is compared against the board's current
// version; a mismatch aborts with ErrConflict so a stale client can refresh
// instead of silently clobbering a concurrent reorder.
func (r *ColumnRepo) Reorder(ctx context.Context, ownerID string, columnID, targetIndex int, baseVersion int64) (*models.Column, error) {
	var moved *models.Column

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID int
		var boardVersion int64
		err := tx.QueryRowContext(ctx,
			`SELECT b.id, b.version
			 FROM boards b
			 JOIN columns c ON c.board_id = b.id
			 WHERE c.id = ? AND b.owner_id = ?`,
			columnID, ownerID,
		).Scan(&boardID, &boardVersion)
		if err != nil {
			return notFoundIfNoRows(err, "column")
		}

		if baseVersion != 0 && baseVersion != boardVersion {
			return fmt.Errorf("board %d at version %d, request based on %d: %w",
				boardID, boardVersion, baseVersion, models.ErrConflict)
		}

		siblings, err := columnEntries(ctx, tx, boardID)
		if err != nil {
			return err
		}

		updates, err := position.PlanMove(siblings, columnID, targetIndex)
		if err != nil {
			if errors.Is(err, position.ErrIndexOutOfRange) {
				return fmt.Errorf("target index %d: %w", targetIndex, models.ErrInvalidArgument)
			}
			return err
		}

		// No net movement: skip every write, including the version bump.
		if len(updates) != 0 {
			if err := applyPositionUpdates(ctx, tx, "columns", updates); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE boards SET version = version + 1 WHERE id = ?", boardID,
			); err != nil {
				return err
			}
		}

		moved, err = scanColumn(tx.QueryRowContext(ctx,
			"SELECT "+columnFields+" FROM columns c WHERE c.id = ?", columnID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes a column and (via CASCADE) its tasks, then renumbers the
// remaining columns so the board's order stays dense.
func (r *ColumnRepo) Delete(ctx context.Context, ownerID string, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var boardID int
		err := tx.QueryRowContext(ctx,
			`SELECT c.board_id
			 FROM columns c
			 JOIN boards b ON b.id = c.board_id
			 WHERE c.id = ? AND b.owner_id = ?`,
			id, ownerID,
		).Scan(&boardID)
		if err != nil {
			return notFoundIfNoRows(err, "column")
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM columns WHERE id = ?", id); err != nil {
			return err
		}

		// Compact the survivors so deletion does not leave a gap.
		siblings, err := columnEntries(ctx, tx, boardID)
		if err != nil {
			return err
		}
		if err := applyPositionUpdates(ctx, tx, "columns", position.PlanCompaction(siblings)); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE boards SET version = version + 1 WHERE id = ?", boardID)
		return err
	})
}

// columnEntries reads a board's columns as planner entries inside tx.
func columnEntries(ctx context.Context, tx *sql.Tx, boardID int) ([]position.Entry, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, position FROM columns WHERE board_id = ? ORDER BY position",
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []position.Entry
	for rows.Next() {
		var e position.Entry
		if err := rows.Scan(&e.ID, &e.Position); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
