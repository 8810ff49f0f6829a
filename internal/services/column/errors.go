package column

import "errors"

// Column-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("column title cannot be empty")
	ErrTitleTooLong    = errors.New("column title cannot exceed 50 characters")
	ErrInvalidColumnID = errors.New("invalid column ID")
	ErrInvalidBoardID  = errors.New("invalid board ID")
	ErrInvalidIndex    = errors.New("invalid index: must be >= 0")
	ErrMissingOwner    = errors.New("caller identity is required")
)
