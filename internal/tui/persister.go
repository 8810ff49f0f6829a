package tui

import (
	"context"

	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/services/column"
	"github.com/tablero-app/tablero/internal/services/task"
)

// servicePersister lets the drag session commit a drop through the
// services, with the caller identity and board already bound.
type servicePersister struct {
	taskSvc   task.Service
	columnSvc column.Service
	ownerID   string
	boardID   int
}

func (p servicePersister) MoveTask(ctx context.Context, taskID, destColumnID, targetIndex int, baseVersion int64) (*models.Task, error) {
	return p.taskSvc.MoveTask(ctx, task.MoveTaskRequest{
		OwnerID:     p.ownerID,
		TaskID:      taskID,
		ColumnID:    destColumnID,
		TargetIndex: targetIndex,
		BaseVersion: baseVersion,
		BoardID:     p.boardID,
	})
}

func (p servicePersister) MoveColumn(ctx context.Context, columnID, targetIndex int, baseVersion int64) (*models.Column, error) {
	return p.columnSvc.MoveColumn(ctx, column.MoveColumnRequest{
		OwnerID:     p.ownerID,
		ColumnID:    columnID,
		TargetIndex: targetIndex,
		BaseVersion: baseVersion,
		BoardID:     p.boardID,
	})
}
