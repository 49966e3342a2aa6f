package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidInput indicates a missing or blank required field.
	ErrInvalidInput = errors.New("invalid task input")
)
