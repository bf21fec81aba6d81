package redis

import (
	"fmt"

	"github.com/battlepigs/battlepigs/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "battlepigs"

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// sessionKey returns the Redis key for a session -> room code binding
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}
