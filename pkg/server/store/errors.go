package store

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDecided is returned for decisions on an item or assignment that
	// has already been decided.
	ErrDecided     = errors.New("already decided")
	ErrNotAssigned = errors.New("approver is not assigned to this item")
	// ErrCompleted is returned when completing a completed assessment.
	ErrCompleted = errors.New("already completed")
)
