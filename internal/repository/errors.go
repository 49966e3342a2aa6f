// Package repository holds the errors shared by every task store.
package repository

import "errors"

var (
	// ErrNotFound means no stored record has the requested ID.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means a store refused a record before writing it,
	// such as a new task that already carries an ID.
	ErrInvalidInput = errors.New("invalid input")
)
