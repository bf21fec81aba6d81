package memory

import (
	"context"
	"sync"

	"github.com/battlepigs/battlepigs/internal/model"
	"github.com/battlepigs/battlepigs/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// This is the default backend: all state lives in process memory and is
// lost on restart.
type Storage struct {
	mu sync.RWMutex

	rooms    map[model.RoomCode]*model.Room
	sessions map[model.SessionID]model.RoomCode
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:    make(map[model.RoomCode]*model.Room),
		sessions: make(map[model.SessionID]model.RoomCode),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

// SaveRoom and GetRoom both work on deep copies, so callers never share
// a room object with the store or with each other. Reads off the room
// lock (the REST surface) see a consistent snapshot.
func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

// Session directory operations

func (s *Storage) BindSession(ctx context.Context, id model.SessionID, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = code
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (model.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.sessions[id]
	if !ok {
		return "", model.ErrSessionNotFound
	}
	return code, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
