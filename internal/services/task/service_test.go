package task

import (
	"context"
	"errors"
	"testing"

	"github.com/tablero-app/tablero/internal/database"
	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/testutil"
)

const testOwner = "owner-a"

// setupService builds a task service over an in-memory database and seeds
// one board with a Todo / Doing / Done column strip.
func setupService(t *testing.T) (Service, *models.Board, []*models.Column) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	svc := NewService(repo, nil)

	ctx := context.Background()
	board, err := repo.CreateBoard(ctx, testOwner, "Test Board")
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	cols := make([]*models.Column, 0, 3)
	for i, title := range []string{"Todo", "Doing", "Done"} {
		col, err := repo.CreateColumn(ctx, testOwner, board.ID, title, i == 1, i == 2)
		if err != nil {
			t.Fatalf("Failed to create column %q: %v", title, err)
		}
		cols = append(cols, col)
	}
	return svc, board, cols
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)

	task, err := svc.CreateTask(context.Background(), CreateTaskRequest{
		OwnerID:     testOwner,
		ColumnID:    cols[0].ID,
		Title:       "Fix login bug",
		Description: "Users can't log in",
		Priority:    models.PriorityHigh,
		BoardID:     board.ID,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.ID == 0 {
		t.Error("Expected task ID to be set")
	}
	if task.Title != "Fix login bug" {
		t.Errorf("Expected title 'Fix login bug', got %q", task.Title)
	}
	if task.Position != 0 {
		t.Errorf("Expected first task at position 0, got %d", task.Position)
	}
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)

	_, err := svc.CreateTask(context.Background(), CreateTaskRequest{
		OwnerID:  testOwner,
		ColumnID: cols[0].ID,
		Title:    "",
		BoardID:  board.ID,
	})
	if err == nil {
		t.Fatal("Expected validation error for empty title")
	}
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected error to classify as invalid argument, got %v", err)
	}
}

func TestCreateTask_MissingOwner(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)

	_, err := svc.CreateTask(context.Background(), CreateTaskRequest{
		ColumnID: cols[0].ID,
		Title:    "No identity",
		BoardID:  board.ID,
	})
	if !errors.Is(err, ErrMissingOwner) {
		t.Errorf("Expected ErrMissingOwner, got %v", err)
	}
}

func TestMoveTask(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)
	ctx := context.Background()

	var ids []int
	for _, title := range []string{"A", "B", "C"} {
		task, err := svc.CreateTask(ctx, CreateTaskRequest{
			OwnerID:  testOwner,
			ColumnID: cols[0].ID,
			Title:    title,
			BoardID:  board.ID,
		})
		if err != nil {
			t.Fatalf("Failed to create task %q: %v", title, err)
		}
		ids = append(ids, task.ID)
	}

	moved, err := svc.MoveTask(ctx, MoveTaskRequest{
		OwnerID:     testOwner,
		TaskID:      ids[2],
		ColumnID:    cols[0].ID,
		TargetIndex: 0,
		BoardID:     board.ID,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if moved.Position != 0 {
		t.Errorf("Expected moved task at position 0, got %d", moved.Position)
	}

	grouped, err := svc.GetTasksByBoard(ctx, testOwner, board.ID)
	if err != nil {
		t.Fatalf("Failed to read board tasks: %v", err)
	}
	got := grouped[cols[0].ID]
	want := []int{ids[2], ids[0], ids[1]}
	for i, task := range got {
		if task.ID != want[i] {
			t.Errorf("Position %d: expected task %d, got %d", i, want[i], task.ID)
		}
		if task.Position != i {
			t.Errorf("Task %d: expected position %d, got %d", task.ID, i, task.Position)
		}
	}
}

func TestMoveTask_IntoCompletedColumnStampsCompletion(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{
		OwnerID:  testOwner,
		ColumnID: cols[0].ID,
		Title:    "Ship it",
		BoardID:  board.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	moved, err := svc.MoveTask(ctx, MoveTaskRequest{
		OwnerID:     testOwner,
		TaskID:      task.ID,
		ColumnID:    cols[2].ID,
		TargetIndex: 0,
		BoardID:     board.ID,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if moved.CompletedAt == nil {
		t.Error("Expected completion timestamp after move into Done column")
	}
}

func TestMoveTask_NegativeIndex(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{
		OwnerID:  testOwner,
		ColumnID: cols[0].ID,
		Title:    "A",
		BoardID:  board.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	_, err = svc.MoveTask(ctx, MoveTaskRequest{
		OwnerID:     testOwner,
		TaskID:      task.ID,
		ColumnID:    cols[0].ID,
		TargetIndex: -1,
		BoardID:     board.ID,
	})
	if !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Expected ErrInvalidIndex, got %v", err)
	}
}

func TestMoveTask_StaleVersionConflict(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)
	ctx := context.Background()

	var ids []int
	for _, title := range []string{"A", "B"} {
		task, err := svc.CreateTask(ctx, CreateTaskRequest{
			OwnerID:  testOwner,
			ColumnID: cols[0].ID,
			Title:    title,
			BoardID:  board.ID,
		})
		if err != nil {
			t.Fatalf("Failed to create task %q: %v", title, err)
		}
		ids = append(ids, task.ID)
	}

	// A concurrent move bumps the column version past the client's view.
	if _, err := svc.MoveTask(ctx, MoveTaskRequest{
		OwnerID:     testOwner,
		TaskID:      ids[1],
		ColumnID:    cols[0].ID,
		TargetIndex: 0,
		BoardID:     board.ID,
	}); err != nil {
		t.Fatalf("Setup move failed: %v", err)
	}

	_, err := svc.MoveTask(ctx, MoveTaskRequest{
		OwnerID:     testOwner,
		TaskID:      ids[0],
		ColumnID:    cols[0].ID,
		TargetIndex: 0,
		BaseVersion: 42, // no longer matches the column
		BoardID:     board.ID,
	})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("Expected conflict for stale version, got %v", err)
	}
}

func TestMoveTask_OtherOwnerNotFound(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{
		OwnerID:  testOwner,
		ColumnID: cols[0].ID,
		Title:    "Private",
		BoardID:  board.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	_, err = svc.MoveTask(ctx, MoveTaskRequest{
		OwnerID:     "owner-b",
		TaskID:      task.ID,
		ColumnID:    cols[0].ID,
		TargetIndex: 0,
		BoardID:     board.ID,
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not-found for foreign owner, got %v", err)
	}
}

func TestUpdateTask_PartialFields(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{
		OwnerID:     testOwner,
		ColumnID:    cols[0].ID,
		Title:       "Original",
		Description: "Keep me",
		Priority:    models.PriorityLow,
		BoardID:     board.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	newTitle := "Renamed"
	if err := svc.UpdateTask(ctx, UpdateTaskRequest{
		OwnerID: testOwner,
		TaskID:  task.ID,
		Title:   &newTitle,
		BoardID: board.ID,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := svc.GetTask(ctx, testOwner, task.ID)
	if err != nil {
		t.Fatalf("Failed to read task: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Expected title 'Renamed', got %q", got.Title)
	}
	if got.Description != "Keep me" {
		t.Errorf("Expected description untouched, got %q", got.Description)
	}
	if got.Priority != models.PriorityLow {
		t.Errorf("Expected priority untouched, got %v", got.Priority)
	}
}

func TestDeleteTask_ClosesGap(t *testing.T) {
	t.Parallel()
	svc, board, cols := setupService(t)
	ctx := context.Background()

	var ids []int
	for _, title := range []string{"A", "B", "C"} {
		task, err := svc.CreateTask(ctx, CreateTaskRequest{
			OwnerID:  testOwner,
			ColumnID: cols[0].ID,
			Title:    title,
			BoardID:  board.ID,
		})
		if err != nil {
			t.Fatalf("Failed to create task %q: %v", title, err)
		}
		ids = append(ids, task.ID)
	}

	if err := svc.DeleteTask(ctx, testOwner, ids[1]); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	grouped, err := svc.GetTasksByBoard(ctx, testOwner, board.ID)
	if err != nil {
		t.Fatalf("Failed to read board tasks: %v", err)
	}
	got := grouped[cols[0].ID]
	if len(got) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(got))
	}
	for i, task := range got {
		if task.Position != i {
			t.Errorf("Task %d: expected position %d, got %d", task.ID, i, task.Position)
		}
	}
}

func TestGetTask_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := setupService(t)

	_, err := svc.GetTask(context.Background(), testOwner, 9999)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not-found, got %v", err)
	}
}
