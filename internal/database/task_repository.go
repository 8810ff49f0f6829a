package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/position"
	"github.com/tablero-app/tablero/internal/workflow"
)

// ============================================================================
// Task Operations
// ============================================================================

// TaskRepo provides data access for tasks. All reads and writes are scoped
// to the owner of the enclosing board, joined through the task's column.
type TaskRepo struct {
	db *sql.DB

	// now is swappable for deterministic timestamp tests.
	now func() time.Time
}

const taskFields = "t.id, t.title, t.description, t.priority, t.column_id, t.position, t.started_at, t.completed_at, t.created_at, t.updated_at"

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	task := &models.Task{}
	var startedAt, completedAt sql.NullTime
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Priority,
		&task.ColumnID, &task.Position, &startedAt, &completedAt,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.StartedAt = scanNullTime(startedAt)
	task.CompletedAt = scanNullTime(completedAt)
	return task, nil
}

// Create appends a new task at the end of the column's task order, applying
// the destination column's workflow flags to the fresh task. A task created
// straight into a marks-completed column is stamped completed immediately.
func (r *TaskRepo) Create(ctx context.Context, ownerID string, columnID int, title, description string, priority models.Priority) (*models.Task, error) {
	var created *models.Task

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var marksStarted, marksCompleted bool
		err := tx.QueryRowContext(ctx,
			`SELECT c.marks_started, c.marks_completed
			 FROM columns c
			 JOIN boards b ON b.id = c.board_id
			 WHERE c.id = ? AND b.owner_id = ?`,
			columnID, ownerID,
		).Scan(&marksStarted, &marksCompleted)
		if err != nil {
			return notFoundIfNoRows(err, "column")
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM tasks WHERE column_id = ?", columnID,
		).Scan(&count); err != nil {
			return err
		}

		flags := workflow.ColumnFlags{MarksStarted: marksStarted, MarksCompleted: marksCompleted}
		startedAt, completedAt := workflow.Derive(flags, nil, nil, r.timeNow())

		result, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (title, description, priority, column_id, position, started_at, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			title, description, priority, columnID, count,
			nullableTime(startedAt), nullableTime(completedAt),
		)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}

		created, err = scanTask(tx.QueryRowContext(ctx,
			"SELECT "+taskFields+" FROM tasks t WHERE t.id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByColumn retrieves all tasks of a column ordered by position.
func (r *TaskRepo) GetByColumn(ctx context.Context, ownerID string, columnID int) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskFields+`
		 FROM tasks t
		 JOIN columns c ON c.id = t.column_id
		 JOIN boards b ON b.id = c.board_id
		 WHERE t.column_id = ? AND b.owner_id = ?
		 ORDER BY t.position`,
		columnID, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetByBoard retrieves every task on a board, grouped by column ID, each
// group ordered by position.
func (r *TaskRepo) GetByBoard(ctx context.Context, ownerID string, boardID int) (map[int][]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskFields+`
		 FROM tasks t
		 JOIN columns c ON c.id = t.column_id
		 JOIN boards b ON b.id = c.board_id
		 WHERE c.board_id = ? AND b.owner_id = ?
		 ORDER BY t.column_id, t.position`,
		boardID, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make(map[int][]*models.Task)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks[task.ColumnID] = append(tasks[task.ColumnID], task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetByID retrieves a single task owned (through its column's board) by
// ownerID.
func (r *TaskRepo) GetByID(ctx context.Context, ownerID string, id int) (*models.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskFields+`
		 FROM tasks t
		 JOIN columns c ON c.id = t.column_id
		 JOIN boards b ON b.id = c.board_id
		 WHERE t.id = ? AND b.owner_id = ?`,
		id, ownerID,
	))
	if err != nil {
		return nil, notFoundIfNoRows(err, "task")
	}
	return task, nil
}

// Update rewrites a task's title, description and priority.
func (r *TaskRepo) Update(ctx context.Context, ownerID string, id int, title, description string, priority models.Priority) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, priority = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND column_id IN (
			SELECT c.id FROM columns c
			JOIN boards b ON b.id = c.board_id
			WHERE b.owner_id = ?
		 )`,
		title, description, priority, id, ownerID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundIfNoRows(sql.ErrNoRows, "task")
	}
	return nil
}

// Delete removes a task and renumbers the remaining tasks of its column so
// the order stays dense.
func (r *TaskRepo) Delete(ctx context.Context, ownerID string, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var columnID int
		err := tx.QueryRowContext(ctx,
			`SELECT t.column_id
			 FROM tasks t
			 JOIN columns c ON c.id = t.column_id
			 JOIN boards b ON b.id = c.board_id
			 WHERE t.id = ? AND b.owner_id = ?`,
			id, ownerID,
		).Scan(&columnID)
		if err != nil {
			return notFoundIfNoRows(err, "task")
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
			return err
		}

		// Compact the survivors so deletion does not leave a gap.
		siblings, err := taskEntries(ctx, tx, columnID)
		if err != nil {
			return err
		}
		if err := applyPositionUpdates(ctx, tx, "tasks", position.PlanCompaction(siblings)); err != nil {
			return err
		}

		return bumpColumnVersion(ctx, tx, columnID)
	})
}

// Reorder moves a task to targetIndex in destColumnID, which may be its
// current column or another column on any board the caller owns.
//
// Everything happens inside one transaction: the ownership checks, the
// old-position read, the sibling reindex on both sides, the timestamp
// derivation from the destination column's flags, the relocation itself,
// and the version bumps. A failure at any step aborts the whole operation;
// no partial reindex is ever visible to other readers.
//
// baseVersion, when non-zero, is compared against the destination column's
// current version; a mismatch aborts with ErrConflict.
//
// Moving a task to its current (column, index) is an idempotent no-op: no
// rows are written and the timestamps are left untouched.
func (r *TaskRepo) Reorder(ctx context.Context, ownerID string, taskID, destColumnID, targetIndex int, baseVersion int64) (*models.Task, error) {
	var moved *models.Task

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Load the moving task, scoped to the caller's ownership chain.
		task, err := scanTask(tx.QueryRowContext(ctx,
			`SELECT `+taskFields+`
			 FROM tasks t
			 JOIN columns c ON c.id = t.column_id
			 JOIN boards b ON b.id = c.board_id
			 WHERE t.id = ? AND b.owner_id = ?`,
			taskID, ownerID,
		))
		if err != nil {
			return notFoundIfNoRows(err, "task")
		}

		// Load the destination column, same scoping.
		var dest struct {
			marksStarted   bool
			marksCompleted bool
			version        int64
		}
		err = tx.QueryRowContext(ctx,
			`SELECT c.marks_started, c.marks_completed, c.version
			 FROM columns c
			 JOIN boards b ON b.id = c.board_id
			 WHERE c.id = ? AND b.owner_id = ?`,
			destColumnID, ownerID,
		).Scan(&dest.marksStarted, &dest.marksCompleted, &dest.version)
		if err != nil {
			return notFoundIfNoRows(err, "destination column")
		}

		if baseVersion != 0 && baseVersion != dest.version {
			return fmt.Errorf("column %d at version %d, request based on %d: %w",
				destColumnID, dest.version, baseVersion, models.ErrConflict)
		}

		sameColumn := task.ColumnID == destColumnID

		// Idempotent no-op: same column, same index. No writes at all.
		if sameColumn && targetIndex == task.Position {
			moved = task
			return nil
		}

		if sameColumn {
			siblings, err := taskEntries(ctx, tx, task.ColumnID)
			if err != nil {
				return err
			}
			updates, err := position.PlanMove(siblings, taskID, targetIndex)
			if err != nil {
				return mapPlanError(err, targetIndex)
			}
			// PlanMove treats index len as "end"; that can still be a no-op.
			if len(updates) == 0 {
				moved = task
				return nil
			}
			// The mover's own row is written below together with its
			// timestamps; apply only the sibling shifts here.
			for _, u := range updates {
				if u.ID == taskID {
					targetIndex = u.Position
					continue
				}
				if _, err := tx.ExecContext(ctx,
					"UPDATE tasks SET position = ? WHERE id = ?", u.Position, u.ID,
				); err != nil {
					return err
				}
			}
		} else {
			source, err := taskEntries(ctx, tx, task.ColumnID)
			if err != nil {
				return err
			}
			removals, err := position.PlanRemoval(source, taskID)
			if err != nil {
				return err
			}

			destSiblings, err := taskEntries(ctx, tx, destColumnID)
			if err != nil {
				return err
			}
			inserts, err := position.PlanInsert(destSiblings, taskID, targetIndex)
			if err != nil {
				return mapPlanError(err, targetIndex)
			}

			if err := applyPositionUpdates(ctx, tx, "tasks", removals); err != nil {
				return err
			}
			// The mover's own insert is written below together with its
			// column reassignment; skip its entry here.
			for _, u := range inserts {
				if u.ID == taskID {
					targetIndex = u.Position
					continue
				}
				if _, err := tx.ExecContext(ctx,
					"UPDATE tasks SET position = ? WHERE id = ?", u.Position, u.ID,
				); err != nil {
					return err
				}
			}
		}

		// Derive lifecycle timestamps from the destination column's flags.
		flags := workflow.ColumnFlags{MarksStarted: dest.marksStarted, MarksCompleted: dest.marksCompleted}
		startedAt, completedAt := workflow.Derive(flags, task.StartedAt, task.CompletedAt, r.timeNow())

		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks
			 SET column_id = ?, position = ?, started_at = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			destColumnID, targetIndex,
			nullableTime(startedAt), nullableTime(completedAt), taskID,
		); err != nil {
			return err
		}

		if err := bumpColumnVersion(ctx, tx, destColumnID); err != nil {
			return err
		}
		if !sameColumn {
			if err := bumpColumnVersion(ctx, tx, task.ColumnID); err != nil {
				return err
			}
		}

		moved, err = scanTask(tx.QueryRowContext(ctx,
			"SELECT "+taskFields+" FROM tasks t WHERE t.id = ?", taskID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// mapPlanError converts planner range errors into the shared taxonomy.
func mapPlanError(err error, targetIndex int) error {
	if errors.Is(err, position.ErrIndexOutOfRange) {
		return fmt.Errorf("target index %d: %w", targetIndex, models.ErrInvalidArgument)
	}
	return err
}

// taskEntries reads a column's tasks as planner entries inside tx.
func taskEntries(ctx context.Context, tx *sql.Tx, columnID int) ([]position.Entry, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, position FROM tasks WHERE column_id = ? ORDER BY position",
		columnID,
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

func (r *TaskRepo) timeNow() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}
