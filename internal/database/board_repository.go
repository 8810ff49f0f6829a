package database

import (
	"context"
	"database/sql"

	"github.com/tablero-app/tablero/internal/models"
)

// ============================================================================
// Board Operations
// ============================================================================

// BoardRepo provides data access for boards. Every operation is scoped to an
// owner identity; rows belonging to other owners behave as if they do not
// exist.
type BoardRepo struct {
	db *sql.DB
}

// Create inserts a new board for the given owner.
func (r *BoardRepo) Create(ctx context.Context, ownerID, name string) (*models.Board, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO boards (name, owner_id) VALUES (?, ?)",
		name, ownerID,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, ownerID, int(id))
}

// GetAll retrieves every board owned by ownerID, oldest first.
func (r *BoardRepo) GetAll(ctx context.Context, ownerID string) ([]*models.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, owner_id, version, created_at
		 FROM boards
		 WHERE owner_id = ?
		 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		board := &models.Board{}
		if err := rows.Scan(
			&board.ID, &board.Name, &board.OwnerID, &board.Version, &board.CreatedAt,
		); err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return boards, nil
}

// GetByID retrieves a single board owned by ownerID.
func (r *BoardRepo) GetByID(ctx context.Context, ownerID string, id int) (*models.Board, error) {
	board := &models.Board{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, version, created_at
		 FROM boards
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&board.ID, &board.Name, &board.OwnerID, &board.Version, &board.CreatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err, "board")
	}
	return board, nil
}

// Delete removes a board and, via CASCADE, all of its columns and tasks.
func (r *BoardRepo) Delete(ctx context.Context, ownerID string, id int) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM boards WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundIfNoRows(sql.ErrNoRows, "board")
	}
	return nil
}

// Rename updates a board's display name.
func (r *BoardRepo) Rename(ctx context.Context, ownerID string, id int, name string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE boards SET name = ? WHERE id = ? AND owner_id = ?",
		name, id, ownerID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundIfNoRows(sql.ErrNoRows, "board")
	}
	return nil
}
