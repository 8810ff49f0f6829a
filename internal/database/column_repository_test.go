package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tablero-app/tablero/internal/models"
)

func columnOrder(t *testing.T, repo *Repository, boardID int) []int {
	t.Helper()
	cols, err := repo.GetColumnsByBoard(context.Background(), testOwner, boardID)
	if err != nil {
		t.Fatalf("GetColumnsByBoard failed: %v", err)
	}
	ids := make([]int, len(cols))
	for i, col := range cols {
		ids[i] = col.ID
	}
	return ids
}

func assertColumnsDense(t *testing.T, repo *Repository, boardID int) {
	t.Helper()
	cols, err := repo.GetColumnsByBoard(context.Background(), testOwner, boardID)
	if err != nil {
		t.Fatalf("GetColumnsByBoard failed: %v", err)
	}
	for i, col := range cols {
		if col.Position != i {
			t.Errorf("column %d at position %d, want %d", col.ID, col.Position, i)
		}
	}
}

func TestCreateColumnAppendsAtEnd(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, cols := seedBoard(t, repo)

	for i, col := range cols {
		if col.Position != i {
			t.Errorf("column %q at position %d, want %d", col.Title, col.Position, i)
		}
	}
}

func TestReorderColumn(t *testing.T) {
	repo, _ := newTestRepository(t)
	board, cols := seedBoard(t, repo)

	// [Todo, In Progress, Done]: move Done to the front.
	moved, err := repo.ReorderColumn(context.Background(), testOwner, cols[2].ID, 0, 0)
	if err != nil {
		t.Fatalf("ReorderColumn failed: %v", err)
	}
	if moved.Position != 0 {
		t.Errorf("moved position = %d, want 0", moved.Position)
	}

	want := []int{cols[2].ID, cols[0].ID, cols[1].ID}
	if got := columnOrder(t, repo, board.ID); !equalIDs(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	assertColumnsDense(t, repo, board.ID)
}

func TestReorderColumnNoOpSkipsVersionBump(t *testing.T) {
	repo, _ := newTestRepository(t)
	board, cols := seedBoard(t, repo)

	ctx := context.Background()
	before, err := repo.GetBoardByID(ctx, testOwner, board.ID)
	if err != nil {
		t.Fatalf("GetBoardByID failed: %v", err)
	}

	if _, err := repo.ReorderColumn(ctx, testOwner, cols[1].ID, 1, 0); err != nil {
		t.Fatalf("ReorderColumn failed: %v", err)
	}

	after, err := repo.GetBoardByID(ctx, testOwner, board.ID)
	if err != nil {
		t.Fatalf("GetBoardByID failed: %v", err)
	}
	if after.Version != before.Version {
		t.Errorf("no-op bumped board version %d -> %d", before.Version, after.Version)
	}
}

func TestReorderColumnStaleVersionConflicts(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, cols := seedBoard(t, repo)

	ctx := context.Background()
	if _, err := repo.ReorderColumn(ctx, testOwner, cols[0].ID, 2, 0); err != nil {
		t.Fatalf("ReorderColumn failed: %v", err)
	}

	_, err := repo.ReorderColumn(ctx, testOwner, cols[1].ID, 0, 99)
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestReorderColumnOwnershipFailsClosed(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, cols := seedBoard(t, repo)

	_, err := repo.ReorderColumn(context.Background(), otherOwner, cols[0].ID, 1, 0)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReorderColumnIndexOutOfRange(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, cols := seedBoard(t, repo)

	_, err := repo.ReorderColumn(context.Background(), testOwner, cols[0].ID, 7, 0)
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestDeleteColumnCompactsBoard(t *testing.T) {
	repo, _ := newTestRepository(t)
	board, cols := seedBoard(t, repo)

	if err := repo.DeleteColumn(context.Background(), testOwner, cols[1].ID); err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}

	want := []int{cols[0].ID, cols[2].ID}
	if got := columnOrder(t, repo, board.ID); !equalIDs(got, want) {
		t.Errorf("order after delete = %v, want %v", got, want)
	}
	assertColumnsDense(t, repo, board.ID)
}

func TestDeleteColumnCascadesTasks(t *testing.T) {
	repo, _ := newTestRepository(t)
	_, cols := seedBoard(t, repo)
	tasks := seedTasks(t, repo, cols[1].ID, 2)

	ctx := context.Background()
	if err := repo.DeleteColumn(ctx, testOwner, cols[1].ID); err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}

	_, err := repo.GetTaskByID(ctx, testOwner, tasks[0].ID)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("task survived column delete: err = %v", err)
	}
}

func TestBoardIsolationBetweenOwners(t *testing.T) {
	repo, _ := newTestRepository(t)
	board, _ := seedBoard(t, repo)

	ctx := context.Background()
	foreign, err := repo.CreateBoard(ctx, otherOwner, "Someone else's")
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}

	boards, err := repo.GetBoards(ctx, testOwner)
	if err != nil {
		t.Fatalf("GetBoards failed: %v", err)
	}
	for _, b := range boards {
		if b.ID == foreign.ID {
			t.Error("owner sees a foreign board")
		}
	}

	if _, err := repo.GetBoardByID(ctx, otherOwner, board.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("foreign read err = %v, want ErrNotFound", err)
	}
}
