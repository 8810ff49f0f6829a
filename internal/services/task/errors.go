package task

import "errors"

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrTitleTooLong    = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID   = errors.New("invalid task ID")
	ErrInvalidColumnID = errors.New("invalid column ID")
	ErrInvalidBoardID  = errors.New("invalid board ID")
	ErrInvalidIndex    = errors.New("invalid index: must be >= 0")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrMissingOwner    = errors.New("caller identity is required")
)
