package storage

import (
	"context"

	"github.com/battlepigs/battlepigs/internal/model"
)

// Storage defines the interface for room and session persistence.
//
// It is a plain document store: all serialization of concurrent access to
// a room happens above it, in the room registry's per-room locks.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// Session directory operations (session -> room code back-references)
	BindSession(ctx context.Context, id model.SessionID, code model.RoomCode) error
	GetSession(ctx context.Context, id model.SessionID) (model.RoomCode, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
}
