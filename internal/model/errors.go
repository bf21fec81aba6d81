package model

import "errors"

// Common errors used across the application.
//
// The first group is reported back to the sender as an error event; the
// second group covers protocol violations, which the dispatcher drops
// without emitting anything.
var (
	// Reported to the sender
	ErrNameRequired     = errors.New("display name is required")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrInvalidPlacement = errors.New("invalid pig placement")

	// Silently dropped
	ErrSessionNotFound = errors.New("session is not in any room")
	ErrWrongPhase      = errors.New("operation not valid in current phase")
	ErrNotYourTurn     = errors.New("not this seat's turn")
	ErrOutOfBounds     = errors.New("coordinate out of bounds")
	ErrAlreadyFired    = errors.New("coordinate already fired")
)
