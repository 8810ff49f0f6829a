package models

import "errors"

// Shared error taxonomy for board operations. Repositories and services wrap
// these sentinels with %w so callers can classify failures with errors.Is
// without depending on storage details.
var (
	// ErrNotFound indicates the entity does not exist or is not owned by
	// the caller. Ownership failures deliberately look identical to
	// missing rows.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a malformed identifier or an index
	// outside the valid range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates a reorder request based on a stale column
	// version. The client should refresh and retry.
	ErrConflict = errors.New("version conflict")

	// ErrInternal indicates a storage or transaction failure. Details are
	// logged, not surfaced to the caller.
	ErrInternal = errors.New("internal error")
)
