package dragsession

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablero-app/tablero/internal/models"
)

// fakePersister records move calls and returns canned results.
type fakePersister struct {
	taskCalls   int
	columnCalls int

	lastTaskID      int
	lastColumnID    int
	lastTargetIndex int
	lastBaseVersion int64

	taskResult *models.Task
	err        error
	blockOnCtx bool
}

func (f *fakePersister) MoveTask(ctx context.Context, taskID, destColumnID, targetIndex int, baseVersion int64) (*models.Task, error) {
	f.taskCalls++
	f.lastTaskID = taskID
	f.lastColumnID = destColumnID
	f.lastTargetIndex = targetIndex
	f.lastBaseVersion = baseVersion
	if f.blockOnCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.taskResult != nil {
		return f.taskResult, nil
	}
	return &models.Task{ID: taskID, ColumnID: destColumnID, Position: targetIndex}, nil
}

func (f *fakePersister) MoveColumn(ctx context.Context, columnID, targetIndex int, baseVersion int64) (*models.Column, error) {
	f.columnCalls++
	f.lastColumnID = columnID
	f.lastTargetIndex = targetIndex
	f.lastBaseVersion = baseVersion
	if f.err != nil {
		return nil, f.err
	}
	return &models.Column{ID: columnID, Position: targetIndex}, nil
}

// newTestMirror builds a two-column board: X holds tasks 1, 2, 3 and Y
// holds task 4.
func newTestMirror() *Mirror {
	board := &models.Board{ID: 1, Version: 7}
	columns := []*models.Column{
		{ID: 10, BoardID: 1, Title: "X", Position: 0, Version: 3},
		{ID: 20, BoardID: 1, Title: "Y", Position: 1, Version: 5},
	}
	tasks := map[int][]*models.Task{
		10: {
			{ID: 1, ColumnID: 10, Position: 0},
			{ID: 2, ColumnID: 10, Position: 1},
			{ID: 3, ColumnID: 10, Position: 2},
		},
		20: {
			{ID: 4, ColumnID: 20, Position: 0},
		},
	}
	return NewMirror(board, columns, tasks)
}

func taskIDs(m *Mirror, columnID int) []int {
	ids := make([]int, 0, len(m.Tasks[columnID]))
	for _, task := range m.Tasks[columnID] {
		ids = append(ids, task.ID)
	}
	return ids
}

func columnIDs(m *Mirror) []int {
	ids := make([]int, 0, len(m.Columns))
	for _, col := range m.Columns {
		ids = append(ids, col.ID)
	}
	return ids
}

func assertMirrorsEqual(t *testing.T, want, got *Mirror) {
	t.Helper()
	assert.Equal(t, want.BoardVersion, got.BoardVersion)
	require.Len(t, got.Columns, len(want.Columns))
	for i := range want.Columns {
		assert.Equal(t, *want.Columns[i], *got.Columns[i])
	}
	require.Len(t, got.Tasks, len(want.Tasks))
	for colID, wantList := range want.Tasks {
		gotList := got.Tasks[colID]
		require.Len(t, gotList, len(wantList), "column %d", colID)
		for i := range wantList {
			assert.Equal(t, *wantList[i], *gotList[i], "column %d index %d", colID, i)
		}
	}
}

func TestHoverReordersLocally(t *testing.T) {
	session := New(newTestMirror())

	require.NoError(t, session.ArmTask(2))
	require.NoError(t, session.HoverTask(10, 0))

	assert.Equal(t, StateHovering, session.State())
	assert.Equal(t, []int{2, 1, 3}, taskIDs(session.Mirror(), 10))
	for i, task := range session.Mirror().Tasks[10] {
		assert.Equal(t, i, task.Position)
	}
}

func TestHoverAcrossColumns(t *testing.T) {
	session := New(newTestMirror())

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(20, 1))

	m := session.Mirror()
	assert.Equal(t, []int{2, 3}, taskIDs(m, 10))
	assert.Equal(t, []int{4, 1}, taskIDs(m, 20))

	moved, ok := m.TaskByID(1)
	require.True(t, ok)
	assert.Equal(t, 20, moved.ColumnID)
	assert.Equal(t, 1, moved.Position)
}

func TestHoverManyTimesStaysDense(t *testing.T) {
	session := New(newTestMirror())

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(10, 2))
	require.NoError(t, session.HoverTask(20, 0))
	require.NoError(t, session.HoverTask(20, 1))
	require.NoError(t, session.HoverTask(10, 1))

	m := session.Mirror()
	for _, colID := range []int{10, 20} {
		for i, task := range m.Tasks[colID] {
			assert.Equal(t, i, task.Position, "column %d", colID)
			assert.Equal(t, colID, task.ColumnID)
		}
	}
}

func TestDropWithoutMovementSkipsPersist(t *testing.T) {
	session := New(newTestMirror())
	persister := &fakePersister{}

	require.NoError(t, session.ArmTask(2))
	require.NoError(t, session.HoverTask(10, 0))
	require.NoError(t, session.HoverTask(10, 1)) // hovered back home

	settle, err := session.Drop()
	require.NoError(t, err)
	assert.False(t, settle)
	assert.Equal(t, StateIdle, session.State())
	assert.Zero(t, persister.taskCalls)
}

func TestDropPersistsIntendedPlacementOnce(t *testing.T) {
	session := New(newTestMirror())
	persister := &fakePersister{}

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(10, 2))
	require.NoError(t, session.HoverTask(20, 1))

	settle, err := session.Drop()
	require.NoError(t, err)
	require.True(t, settle)
	assert.Equal(t, StateSettling, session.State())

	require.NoError(t, session.Settle(context.Background(), persister))

	assert.Equal(t, 1, persister.taskCalls)
	assert.Equal(t, 1, persister.lastTaskID)
	assert.Equal(t, 20, persister.lastColumnID)
	assert.Equal(t, 1, persister.lastTargetIndex)
	// Base version is the destination column's pre-gesture version.
	assert.Equal(t, int64(5), persister.lastBaseVersion)
	assert.Equal(t, StateIdle, session.State())
}

func TestSettleMergesDerivedTimestampsOnly(t *testing.T) {
	session := New(newTestMirror())
	completed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	persister := &fakePersister{
		taskResult: &models.Task{
			ID:          1,
			ColumnID:    20,
			Position:    1,
			CompletedAt: &completed,
		},
	}

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(20, 1))
	_, err := session.Drop()
	require.NoError(t, err)
	require.NoError(t, session.Settle(context.Background(), persister))

	m := session.Mirror()
	task, ok := m.TaskByID(1)
	require.True(t, ok)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, completed.Equal(*task.CompletedAt))

	// The optimistic ordering stands; the response never replaces it.
	assert.Equal(t, []int{2, 3}, taskIDs(m, 10))
	assert.Equal(t, []int{4, 1}, taskIDs(m, 20))
}

func TestFailedSettleRestoresSnapshot(t *testing.T) {
	session := New(newTestMirror())
	baseline := session.Mirror().Clone()
	persister := &fakePersister{err: models.ErrInternal}

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(10, 2))
	_, err := session.Drop()
	require.NoError(t, err)

	err = session.Settle(context.Background(), persister)
	require.ErrorIs(t, err, models.ErrInternal)

	assert.Equal(t, StateIdle, session.State())
	assert.False(t, session.NeedsRefresh())
	assertMirrorsEqual(t, baseline, session.Mirror())
}

func TestConflictFlagsRefresh(t *testing.T) {
	session := New(newTestMirror())
	baseline := session.Mirror().Clone()
	persister := &fakePersister{err: models.ErrConflict}

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(20, 0))
	_, err := session.Drop()
	require.NoError(t, err)

	err = session.Settle(context.Background(), persister)
	require.ErrorIs(t, err, models.ErrConflict)

	assert.True(t, session.NeedsRefresh())
	assertMirrorsEqual(t, baseline, session.Mirror())

	session.AckRefresh()
	assert.False(t, session.NeedsRefresh())
}

func TestSettleTimeoutRollsBack(t *testing.T) {
	session := New(newTestMirror())
	session.SetPersistTimeout(10 * time.Millisecond)
	baseline := session.Mirror().Clone()
	persister := &fakePersister{blockOnCtx: true}

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(10, 2))
	_, err := session.Drop()
	require.NoError(t, err)

	err = session.Settle(context.Background(), persister)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assertMirrorsEqual(t, baseline, session.Mirror())
}

func TestCancelRestoresSnapshot(t *testing.T) {
	session := New(newTestMirror())
	baseline := session.Mirror().Clone()

	require.NoError(t, session.ArmTask(3))
	require.NoError(t, session.HoverTask(20, 0))
	require.NoError(t, session.Cancel())

	assert.Equal(t, StateIdle, session.State())
	assertMirrorsEqual(t, baseline, session.Mirror())
}

func TestSecondArmWhileDraggingRejected(t *testing.T) {
	session := New(newTestMirror())

	require.NoError(t, session.ArmTask(1))
	assert.ErrorIs(t, session.ArmTask(2), ErrDragInProgress)
	assert.ErrorIs(t, session.ArmColumn(10), ErrDragInProgress)
}

func TestArmWhileSettlingRejected(t *testing.T) {
	session := New(newTestMirror())

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(20, 0))
	settle, err := session.Drop()
	require.NoError(t, err)
	require.True(t, settle)

	assert.ErrorIs(t, session.ArmTask(2), ErrMoveInFlight)

	require.NoError(t, session.Settle(context.Background(), &fakePersister{}))
	assert.NoError(t, session.ArmTask(2))
}

func TestArmUnknownTask(t *testing.T) {
	session := New(newTestMirror())
	assert.ErrorIs(t, session.ArmTask(999), ErrUnknownItem)
}

func TestHoverWithoutArm(t *testing.T) {
	session := New(newTestMirror())
	assert.ErrorIs(t, session.HoverTask(10, 0), ErrNoDrag)
	_, err := session.Drop()
	assert.ErrorIs(t, err, ErrNoDrag)
	assert.ErrorIs(t, session.Cancel(), ErrNoDrag)
}

func TestColumnDrag(t *testing.T) {
	session := New(newTestMirror())
	persister := &fakePersister{}

	require.NoError(t, session.ArmColumn(20))
	require.NoError(t, session.HoverColumn(0))

	assert.Equal(t, []int{20, 10}, columnIDs(session.Mirror()))

	settle, err := session.Drop()
	require.NoError(t, err)
	require.True(t, settle)
	require.NoError(t, session.Settle(context.Background(), persister))

	assert.Equal(t, 1, persister.columnCalls)
	assert.Equal(t, 20, persister.lastColumnID)
	assert.Equal(t, 0, persister.lastTargetIndex)
	// Base version is the board's pre-gesture version.
	assert.Equal(t, int64(7), persister.lastBaseVersion)
	assert.Equal(t, int64(8), session.Mirror().BoardVersion)
}

func TestColumnDragRollback(t *testing.T) {
	session := New(newTestMirror())
	baseline := session.Mirror().Clone()
	persister := &fakePersister{err: models.ErrConflict}

	require.NoError(t, session.ArmColumn(10))
	require.NoError(t, session.HoverColumn(1))
	_, err := session.Drop()
	require.NoError(t, err)

	err = session.Settle(context.Background(), persister)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.True(t, session.NeedsRefresh())
	assertMirrorsEqual(t, baseline, session.Mirror())
}

func TestSettleBumpsColumnVersions(t *testing.T) {
	session := New(newTestMirror())
	persister := &fakePersister{}

	require.NoError(t, session.ArmTask(1))
	require.NoError(t, session.HoverTask(20, 1))
	_, err := session.Drop()
	require.NoError(t, err)
	require.NoError(t, session.Settle(context.Background(), persister))

	m := session.Mirror()
	src, _ := m.ColumnByID(10)
	dest, _ := m.ColumnByID(20)
	assert.Equal(t, int64(4), src.Version)
	assert.Equal(t, int64(6), dest.Version)
}
