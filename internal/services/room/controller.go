package room

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/battlepigs/battlepigs/internal/dependencies/clock"
	"github.com/battlepigs/battlepigs/internal/dependencies/random"
	"github.com/battlepigs/battlepigs/internal/model"
	"github.com/battlepigs/battlepigs/internal/storage"
)

// RoomCodeAlphabet is the characters used in room codes
const RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Controller is the process-wide room registry and session directory.
//
// It owns a lock per live room: operations against the same room are
// serialized, operations against different rooms proceed concurrently.
// Storage underneath is a plain document store.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	mu       sync.Mutex
	locks    map[model.RoomCode]*sync.Mutex
	reserved map[model.RoomCode]struct{}
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "room")),
		locks:    make(map[model.RoomCode]*sync.Mutex),
		reserved: make(map[model.RoomCode]struct{}),
	}
}

// lockFor returns the mutex guarding the given room, creating it if needed
func (c *Controller) lockFor(code model.RoomCode) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[code]
	if !ok {
		l = &sync.Mutex{}
		c.locks[code] = l
	}
	return l
}

// lockCurrent acquires the live lock for code. The entry may have been
// dropped and reissued while we waited on it; in that case retry against
// the fresh entry so we never mutate a room while holding a stale mutex.
func (c *Controller) lockCurrent(code model.RoomCode) *sync.Mutex {
	for {
		lock := c.lockFor(code)
		lock.Lock()
		c.mu.Lock()
		current := c.locks[code]
		c.mu.Unlock()
		if current == lock {
			return lock
		}
		lock.Unlock()
	}
}

// dropLock removes a dead room's lock table entry. The caller must hold
// lock. Codes reserved by an in-flight create, and entries already
// reissued to a newer caller, are left alone.
func (c *Controller) dropLock(code model.RoomCode, lock *sync.Mutex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.reserved[code]; held {
		return
	}
	if current, ok := c.locks[code]; ok && current == lock {
		delete(c.locks, code)
	}
}

// confirmCode clears a code's reservation once its room has been saved
func (c *Controller) confirmCode(code model.RoomCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.reserved, code)
}

// releaseCode abandons a reservation whose room never got saved
func (c *Controller) releaseCode(code model.RoomCode, lock *sync.Mutex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.reserved, code)
	if current, ok := c.locks[code]; ok && current == lock {
		delete(c.locks, code)
	}
}

// CreateRoom creates a waiting room with the given session as creator (seat 0)
// and binds the session to it.
func (c *Controller) CreateRoom(ctx context.Context, id model.SessionID, name string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	code, err := c.reserveCode(ctx)
	if err != nil {
		return nil, err
	}

	lock := c.lockFor(code)
	lock.Lock()
	defer lock.Unlock()

	now := c.clock.Now()
	room := model.NewRoom(code, model.RoomPlayer{
		SessionID:   id,
		DisplayName: name,
	}, now)

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		c.releaseCode(code, lock)
		return nil, err
	}
	c.confirmCode(code)
	if err := c.storage.BindSession(ctx, id, code); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("code", string(code)),
		slog.String("creator", name),
	)

	return room, nil
}

// reserveCode draws random 4-letter codes until one is free among live rooms.
// The lock table entry is installed and marked reserved under the registry
// mutex, so two concurrent creates cannot settle on the same code and no one
// can drop the entry before the room is saved.
func (c *Controller) reserveCode(ctx context.Context) (model.RoomCode, error) {
	for {
		code := model.RoomCode(c.random.String(model.RoomCodeLength, RoomCodeAlphabet))

		c.mu.Lock()
		if _, taken := c.locks[code]; taken {
			c.mu.Unlock()
			continue
		}
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			c.mu.Unlock()
			return "", err
		}
		if exists {
			c.mu.Unlock()
			continue
		}
		c.locks[code] = &sync.Mutex{}
		c.reserved[code] = struct{}{}
		c.mu.Unlock()
		return code, nil
	}
}

// JoinRoom seats the session at seat 1 of the room with the given code and
// advances the room to the placing phase.
func (c *Controller) JoinRoom(ctx context.Context, id model.SessionID, name, code string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}
	roomCode := model.RoomCode(strings.ToUpper(strings.TrimSpace(code)))

	lock := c.lockCurrent(roomCode)
	defer lock.Unlock()

	room, err := c.storage.GetRoom(ctx, roomCode)
	if err != nil {
		// Unknown code; do not leave a speculative lock entry behind,
		// or the code would be withheld from create forever.
		c.dropLock(roomCode, lock)
		return nil, err
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	room.Players = append(room.Players, model.RoomPlayer{
		SessionID:   id,
		DisplayName: name,
	})
	room.Phase = model.PhasePlacing
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	if err := c.storage.BindSession(ctx, id, roomCode); err != nil {
		return nil, err
	}

	c.logger.Info("room joined",
		slog.String("code", string(roomCode)),
		slog.String("joiner", name),
	)

	return room, nil
}

// WithRoom resolves the session to its room and seat, then runs fn while
// holding the room's lock. If fn returns nil, the room is saved back.
// An unresolvable session yields model.ErrSessionNotFound.
func (c *Controller) WithRoom(ctx context.Context, id model.SessionID, fn func(room *model.Room, seat model.Seat) error) error {
	room, seat, lock, err := c.resolveLocked(ctx, id)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := fn(room, seat); err != nil {
		return err
	}

	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// RemoveSession resolves the session, destroys its entire room and removes
// both seats' session directory entries atomically. It returns the final
// room snapshot and the leaver's seat so callers can notify the remaining
// occupant.
func (c *Controller) RemoveSession(ctx context.Context, id model.SessionID) (*model.Room, model.Seat, error) {
	room, seat, lock, err := c.resolveLocked(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	defer lock.Unlock()

	for i := range room.Players {
		if err := c.storage.DeleteSession(ctx, room.Players[i].SessionID); err != nil {
			return nil, 0, err
		}
	}
	if err := c.storage.DeleteRoom(ctx, room.Code); err != nil {
		return nil, 0, err
	}
	c.dropLock(room.Code, lock)

	c.logger.Info("room destroyed",
		slog.String("code", string(room.Code)),
		slog.String("phase", string(room.Phase)),
	)

	return room, seat, nil
}

// GetRoom retrieves a room by code (read-only, no lock held on return)
func (c *Controller) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, code)
}

// resolveLocked looks up the session's room, acquires its lock, and
// re-reads the room under it. The caller must unlock on all paths.
func (c *Controller) resolveLocked(ctx context.Context, id model.SessionID) (*model.Room, model.Seat, *sync.Mutex, error) {
	code, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, 0, nil, err
	}

	lock := c.lockCurrent(code)

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		// Room torn down between lookup and lock; drop the stale binding.
		c.dropLock(code, lock)
		lock.Unlock()
		_ = c.storage.DeleteSession(ctx, id)
		return nil, 0, nil, model.ErrSessionNotFound
	}

	seat, ok := room.Seat(id)
	if !ok {
		lock.Unlock()
		return nil, 0, nil, model.ErrSessionNotFound
	}

	return room, seat, lock, nil
}
