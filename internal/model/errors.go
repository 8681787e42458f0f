package model

import "errors"

// Domain errors. Callers wrap them with the offending value and match with errors.Is.
var (
	// ErrNotFound is returned when a lookup by ID matches no record
	ErrNotFound = errors.New("not found")

	// ErrDuplicateTitle is returned when a title is already in use in its uniqueness scope
	ErrDuplicateTitle = errors.New("title already in use")

	// ErrInvalidTitle is returned for empty or blank titles
	ErrInvalidTitle = errors.New("title must not be empty")

	// ErrInvalidDueDate is returned when a due date lies in the past
	ErrInvalidDueDate = errors.New("due date cannot be in the past")

	// ErrTaskBlocked is returned when a blocked task is asked to move
	ErrTaskBlocked = errors.New("task is blocked")

	// ErrInvalidMoveTarget is returned when a task is moved to its own column or off its board
	ErrInvalidMoveTarget = errors.New("invalid move target")

	// ErrStorage is returned when the backing store could not be read or written
	ErrStorage = errors.New("storage failure")
)
