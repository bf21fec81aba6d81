package model

import "time"

// SessionID identifies one websocket connection for its lifetime
type SessionID string

// RoomCode is the 4-letter identifier a joiner uses to find a waiting room
type RoomCode string

// RoomCodeLength is the length of generated room codes
const RoomCodeLength = 4

// Seat is a player's fixed index within a room, assigned at join time
// and preserved across rematches
type Seat int

const (
	SeatCreator Seat = 0
	SeatJoiner  Seat = 1
)

// Opposite returns the other seat
func (s Seat) Opposite() Seat {
	return 1 - s
}

// Phase is a room's current stage in its lifecycle
type Phase string

const (
	PhaseWaiting  Phase = "waiting"  // one seat, awaiting the second player
	PhasePlacing  Phase = "placing"  // both seated, awaiting both placements
	PhasePlaying  Phase = "playing"  // turn-based firing
	PhaseFinished Phase = "finished" // one fleet fully sunk
)

// RoomPlayer is a seated participant in a room
type RoomPlayer struct {
	SessionID   SessionID
	DisplayName string
	Board       Board // nil until a placement is accepted
	Ready       bool
}

// Room is all per-room state: membership, boards, shot bookkeeping,
// turn ownership and phase
type Room struct {
	Code      RoomCode
	Players   []RoomPlayer // seat 0 = creator, seat 1 = joiner; never more than 2
	Shots     [2]ShotSet   // indexed by seat, shots fired BY that seat
	Turn      Seat         // meaningful only in PhasePlaying
	Phase     Phase
	Winner    *Seat // nil until PhaseFinished
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRoom creates a waiting room with the creator in seat 0
func NewRoom(code RoomCode, creator RoomPlayer, now time.Time) *Room {
	return &Room{
		Code:      code,
		Players:   []RoomPlayer{creator},
		Shots:     [2]ShotSet{NewShotSet(), NewShotSet()},
		Turn:      SeatCreator,
		Phase:     PhaseWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the room. Storage backends hand out
// clones so a reader never aliases a room being mutated under its lock.
func (r *Room) Clone() *Room {
	out := *r
	out.Players = make([]RoomPlayer, len(r.Players))
	for i, p := range r.Players {
		p.Board = p.Board.Clone()
		out.Players[i] = p
	}
	out.Shots = [2]ShotSet{r.Shots[0].Clone(), r.Shots[1].Clone()}
	if r.Winner != nil {
		w := *r.Winner
		out.Winner = &w
	}
	return &out
}

// IsFull returns true if both seats are taken
func (r *Room) IsFull() bool {
	return len(r.Players) >= 2
}

// Seat returns the seat of the given session, if it is in this room
func (r *Room) Seat(id SessionID) (Seat, bool) {
	for i := range r.Players {
		if r.Players[i].SessionID == id {
			return Seat(i), true
		}
	}
	return 0, false
}

// Player returns the occupant of the given seat, or nil if unseated
func (r *Room) Player(seat Seat) *RoomPlayer {
	if int(seat) < 0 || int(seat) >= len(r.Players) {
		return nil
	}
	return &r.Players[seat]
}

// BothReady returns true if both seats are taken and both have placed
func (r *Room) BothReady() bool {
	return r.IsFull() && r.Players[0].Ready && r.Players[1].Ready
}
