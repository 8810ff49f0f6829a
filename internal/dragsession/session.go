// Package dragsession drives drag-and-drop reordering on the client side.
//
// A drag is an explicit state machine: Idle until a gesture picks an item,
// Armed once a snapshot of the board mirror is captured, Hovering while
// move events reshuffle the mirror optimistically, Settling while the one
// persist call a drop produces is in flight. The optimistic order is never
// persisted itself; the drop communicates only the intended final
// placement and the server recomputes everything from storage. On any
// persist failure the pre-gesture snapshot is restored verbatim.
package dragsession

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tablero-app/tablero/internal/models"
)

// State identifies where a drag session is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateHovering
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateHovering:
		return "hovering"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// Kind distinguishes a task drag from a column drag.
type Kind int

const (
	KindTask Kind = iota
	KindColumn
)

var (
	ErrDragInProgress = errors.New("a drag is already in progress")
	ErrMoveInFlight   = errors.New("a move is still settling")
	ErrNoDrag         = errors.New("no drag in progress")
	ErrUnknownItem    = errors.New("item not present in the board mirror")
)

// DefaultPersistTimeout bounds the persist call of a drop. A timeout is
// treated exactly like a failed persist: the snapshot is restored.
const DefaultPersistTimeout = 5 * time.Second

// Persister issues the single reorder call a drop commits. Implementations
// wrap the task and column services; the session itself never talks to
// storage or the network.
type Persister interface {
	MoveTask(ctx context.Context, taskID, destColumnID, targetIndex int, baseVersion int64) (*models.Task, error)
	MoveColumn(ctx context.Context, columnID, targetIndex int, baseVersion int64) (*models.Column, error)
}

// pendingMove is the placement a drop committed, expressed against the
// pre-gesture state the client last observed.
type pendingMove struct {
	kind           Kind
	id             int
	destColumnID   int
	sourceColumnID int
	targetIndex    int
	baseVersion    int64
}

// Session is the drag state machine for one board mirror. Methods are safe
// for concurrent use; Settle releases the lock while its persist call is in
// flight so the UI loop never blocks on the network.
type Session struct {
	mu      sync.Mutex
	mirror  *Mirror
	timeout time.Duration

	state    State
	kind     Kind
	picked   int
	snapshot *Mirror

	// pre-gesture placement of the picked item
	sourceColumnID int
	sourceIndex    int

	pending      *pendingMove
	needsRefresh bool
}

// New creates an idle session over a board mirror.
func New(mirror *Mirror) *Session {
	return &Session{
		mirror:  mirror,
		timeout: DefaultPersistTimeout,
	}
}

// SetPersistTimeout overrides the bound on drop persist calls.
func (s *Session) SetPersistTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// Mirror exposes the board mirror the session mutates. Render from this.
func (s *Session) Mirror() *Mirror {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Picked reports the item currently being dragged, if any.
func (s *Session) Picked() (Kind, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return 0, 0, false
	}
	return s.kind, s.picked, true
}

// NeedsRefresh reports whether a conflicting concurrent reorder was
// detected. The board should be reloaded from storage before the next drag.
func (s *Session) NeedsRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsRefresh
}

// AckRefresh clears the refresh flag once the caller has reloaded.
func (s *Session) AckRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needsRefresh = false
}

// ArmTask starts a task drag: snapshots the mirror as the rollback baseline
// and records the task's pre-gesture placement. No network activity.
func (s *Session) ArmTask(taskID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.armable(); err != nil {
		return err
	}

	columnID, index, ok := s.mirror.TaskLocation(taskID)
	if !ok {
		return ErrUnknownItem
	}
	s.arm(KindTask, taskID, columnID, index)
	return nil
}

// ArmColumn starts a column drag.
func (s *Session) ArmColumn(columnID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.armable(); err != nil {
		return err
	}

	index, ok := s.mirror.ColumnIndex(columnID)
	if !ok {
		return ErrUnknownItem
	}
	s.arm(KindColumn, columnID, 0, index)
	return nil
}

func (s *Session) armable() error {
	switch s.state {
	case StateArmed, StateHovering:
		return ErrDragInProgress
	case StateSettling:
		return ErrMoveInFlight
	}
	return nil
}

func (s *Session) arm(kind Kind, id, sourceColumnID, sourceIndex int) {
	s.snapshot = s.mirror.Clone()
	s.kind = kind
	s.picked = id
	s.sourceColumnID = sourceColumnID
	s.sourceIndex = sourceIndex
	s.state = StateArmed
}

// HoverTask moves the picked task to (columnID, index) in the mirror only.
// Fired on every gesture-move event; it is prediction, never persisted.
func (s *Session) HoverTask(columnID, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateArmed && s.state != StateHovering {
		return ErrNoDrag
	}
	if s.kind != KindTask {
		return ErrNoDrag
	}
	if err := s.mirror.MoveTask(s.picked, columnID, index); err != nil {
		return err
	}
	s.state = StateHovering
	return nil
}

// HoverColumn moves the picked column to index in the mirror only.
func (s *Session) HoverColumn(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateArmed && s.state != StateHovering {
		return ErrNoDrag
	}
	if s.kind != KindColumn {
		return ErrNoDrag
	}
	if err := s.mirror.MoveColumn(s.picked, index); err != nil {
		return err
	}
	s.state = StateHovering
	return nil
}

// Drop commits the gesture. When the picked item sits exactly where it
// started there is nothing to persist and the session returns to idle
// immediately. Otherwise the session enters Settling and the caller must
// follow up with Settle to run the persist call.
//
// The returned flag reports whether a settle is required.
func (s *Session) Drop() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateArmed && s.state != StateHovering {
		return false, ErrNoDrag
	}

	switch s.kind {
	case KindTask:
		columnID, index, ok := s.mirror.TaskLocation(s.picked)
		if !ok || (columnID == s.sourceColumnID && index == s.sourceIndex) {
			// no net movement
			s.reset()
			return false, nil
		}
		base := int64(0)
		if col, ok := s.snapshot.ColumnByID(columnID); ok {
			base = col.Version
		}
		s.pending = &pendingMove{
			kind:           KindTask,
			id:             s.picked,
			destColumnID:   columnID,
			sourceColumnID: s.sourceColumnID,
			targetIndex:    index,
			baseVersion:    base,
		}
	case KindColumn:
		index, ok := s.mirror.ColumnIndex(s.picked)
		if !ok || index == s.sourceIndex {
			s.reset()
			return false, nil
		}
		s.pending = &pendingMove{
			kind:        KindColumn,
			id:          s.picked,
			targetIndex: index,
			baseVersion: s.snapshot.BoardVersion,
		}
	}

	s.state = StateSettling
	return true, nil
}

// Settle runs the persist call a drop produced and resolves the session.
// On success the server-derived lifecycle timestamps are merged into the
// optimistic order, which is otherwise left as-is. On any failure,
// including timeout, the pre-gesture snapshot is restored verbatim and the
// error is returned for a transient notice; a conflict additionally flags
// the board for refresh. Never retries.
func (s *Session) Settle(ctx context.Context, p Persister) error {
	s.mu.Lock()
	if s.state != StateSettling || s.pending == nil {
		s.mu.Unlock()
		return ErrNoDrag
	}
	pending := *s.pending
	timeout := s.timeout
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		task *models.Task
		err  error
	)
	switch pending.kind {
	case KindTask:
		task, err = p.MoveTask(ctx, pending.id, pending.destColumnID, pending.targetIndex, pending.baseVersion)
	case KindColumn:
		_, err = p.MoveColumn(ctx, pending.id, pending.targetIndex, pending.baseVersion)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil

	if err != nil {
		s.mirror.Restore(s.snapshot)
		if errors.Is(err, models.ErrConflict) {
			s.needsRefresh = true
		}
		s.reset()
		return err
	}

	switch pending.kind {
	case KindTask:
		if task != nil {
			s.mirror.mergeTaskResult(task)
		}
		// The commit bumped these versions server-side; track the bumps
		// so the next gesture bases on fresh values without a reload.
		s.mirror.bumpColumnVersion(pending.destColumnID)
		if pending.sourceColumnID != pending.destColumnID {
			s.mirror.bumpColumnVersion(pending.sourceColumnID)
		}
	case KindColumn:
		s.mirror.BoardVersion++
	}
	s.reset()
	return nil
}

// Cancel abandons the gesture with no valid drop target: the snapshot is
// restored immediately and nothing is persisted.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateArmed && s.state != StateHovering {
		return ErrNoDrag
	}
	s.mirror.Restore(s.snapshot)
	s.reset()
	return nil
}

// Reload replaces the mirror after a fresh board read, outside any drag.
func (s *Session) Reload(mirror *Mirror) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrDragInProgress
	}
	s.mirror = mirror
	return nil
}

func (s *Session) reset() {
	s.snapshot = nil
	s.picked = 0
	s.sourceColumnID = 0
	s.sourceIndex = 0
	s.state = StateIdle
}
