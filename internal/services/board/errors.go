package board

import "errors"

// Board-related errors
var (
	ErrEmptyName      = errors.New("board name cannot be empty")
	ErrNameTooLong    = errors.New("board name cannot exceed 100 characters")
	ErrInvalidBoardID = errors.New("invalid board ID")
	ErrMissingOwner   = errors.New("caller identity is required")
)
