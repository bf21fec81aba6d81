package game

import (
	"context"
	"log/slog"

	"github.com/battlepigs/battlepigs/internal/model"
	"github.com/battlepigs/battlepigs/internal/services/board"
	"github.com/battlepigs/battlepigs/internal/services/room"
)

// Controller drives the per-room state machine: placements, firing,
// rematches and disconnects. Every operation resolves the sender's
// session to (room, seat) first and runs atomically under that room's
// lock; a sender unknown to any room yields model.ErrSessionNotFound.
type Controller struct {
	rooms  *room.Controller
	boards *board.Service
	logger *slog.Logger
}

// NewController creates a new game Controller
func NewController(rooms *room.Controller, boards *board.Service, logger *slog.Logger) *Controller {
	return &Controller{
		rooms:  rooms,
		boards: boards,
		logger: logger.With(slog.String("component", "game")),
	}
}

// PlacementResult describes the outcome of an accepted placement
type PlacementResult struct {
	Started  bool       // true once both seats have placed
	Turn     model.Seat // opening turn, meaningful when Started
	Sessions []model.SessionID
}

// SunkPiece reports a pig whose every cell has now been hit
type SunkPiece struct {
	ID    model.PieceID
	Cells []model.Coord
	Name  string
}

// FireResult is the full outcome of one resolved shot, broadcast to the room
type FireResult struct {
	Coord      model.Coord
	Hit        bool
	Shooter    model.Seat
	Turn       model.Seat
	Sunk       *SunkPiece
	GameOver   bool
	WinnerName string
	Sessions   []model.SessionID
}

// SeatStart carries one seat's personalized game-start notification
type SeatStart struct {
	SessionID model.SessionID
	You       model.Seat
	Opponent  string
}

// RematchResult carries both seats' fresh game-start notifications
type RematchResult struct {
	Seats []SeatStart
}

// DisconnectResult reports a torn-down room
type DisconnectResult struct {
	LeaverName string
	Remaining  []model.SessionID // sessions still connected, 0 or 1
}

// SubmitPlacement validates and stores the sender's board. When the
// opponent has already placed, the room advances to the playing phase
// with the opening turn at seat 0.
func (c *Controller) SubmitPlacement(ctx context.Context, id model.SessionID, b model.Board) (*PlacementResult, error) {
	var result PlacementResult
	err := c.rooms.WithRoom(ctx, id, func(r *model.Room, seat model.Seat) error {
		if err := c.boards.ValidatePlacement(b); err != nil {
			return err
		}

		player := r.Player(seat)
		player.Board = b
		player.Ready = true

		if r.BothReady() {
			r.Phase = model.PhasePlaying
			r.Turn = model.SeatCreator
			result.Started = true
			result.Turn = r.Turn
		}
		result.Sessions = sessionsOf(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Started {
		c.logger.Info("battle started", slog.String("session", string(id)))
	}
	return &result, nil
}

// Fire resolves one shot from the sender against the opponent's board.
//
// Any protocol violation (wrong phase, out of turn, out of bounds, repeat
// coordinate) returns a sentinel error with no state change; the
// dispatcher drops those silently. A resolved shot always either ends the
// game or passes the turn to the opponent, hit or miss.
func (c *Controller) Fire(ctx context.Context, id model.SessionID, coord model.Coord) (*FireResult, error) {
	var result FireResult
	err := c.rooms.WithRoom(ctx, id, func(r *model.Room, seat model.Seat) error {
		if r.Phase != model.PhasePlaying {
			return model.ErrWrongPhase
		}
		if r.Turn != seat {
			return model.ErrNotYourTurn
		}
		if !coord.InBounds() {
			return model.ErrOutOfBounds
		}
		shots := r.Shots[seat]
		if shots.Contains(coord) {
			return model.ErrAlreadyFired
		}

		shots.Add(coord)

		opponent := r.Player(seat.Opposite())
		cell := opponent.Board.Cell(coord)
		hit := cell > 0

		result.Coord = coord
		result.Hit = hit
		result.Shooter = seat

		if hit {
			pieceID := model.PieceID(cell)
			pieceCells := opponent.Board.CellsOf(pieceID)
			if shots.Covers(pieceCells) {
				piece := model.PieceByID(pieceID)
				result.Sunk = &SunkPiece{
					ID:    pieceID,
					Cells: pieceCells,
					Name:  piece.Name,
				}
			}
			if shots.Covers(opponent.Board.OccupiedCells()) {
				r.Phase = model.PhaseFinished
				winner := seat
				r.Winner = &winner
				result.GameOver = true
				result.WinnerName = r.Player(seat).DisplayName
			}
		}

		// The turn holds on the final shot and alternates otherwise,
		// miss or hit alike.
		if !result.GameOver {
			r.Turn = seat.Opposite()
		}
		result.Turn = r.Turn
		result.Sessions = sessionsOf(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.GameOver {
		c.logger.Info("game over",
			slog.String("winner", result.WinnerName),
			slog.Int("seat", int(result.Shooter)),
		)
	}
	return &result, nil
}

// PlayAgain resets the room for a rematch: boards and ready flags cleared,
// shot sets emptied, turn back to seat 0, phase to placing, winner unset.
// Room code and seat assignments survive.
func (c *Controller) PlayAgain(ctx context.Context, id model.SessionID) (*RematchResult, error) {
	var result RematchResult
	err := c.rooms.WithRoom(ctx, id, func(r *model.Room, seat model.Seat) error {
		if !r.IsFull() {
			return model.ErrWrongPhase
		}

		for i := range r.Players {
			r.Players[i].Board = nil
			r.Players[i].Ready = false
		}
		r.Shots = [2]model.ShotSet{model.NewShotSet(), model.NewShotSet()}
		r.Turn = model.SeatCreator
		r.Phase = model.PhasePlacing
		r.Winner = nil

		for i := range r.Players {
			s := model.Seat(i)
			result.Seats = append(result.Seats, SeatStart{
				SessionID: r.Players[i].SessionID,
				You:       s,
				Opponent:  r.Player(s.Opposite()).DisplayName,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("rematch started", slog.String("session", string(id)))
	return &result, nil
}

// Disconnect tears down the leaver's entire room, whatever its phase.
// There is no reconnect grace period and no half-room survival.
func (c *Controller) Disconnect(ctx context.Context, id model.SessionID) (*DisconnectResult, error) {
	r, seat, err := c.rooms.RemoveSession(ctx, id)
	if err != nil {
		return nil, err
	}

	result := DisconnectResult{
		LeaverName: r.Player(seat).DisplayName,
	}
	for i := range r.Players {
		if r.Players[i].SessionID != id {
			result.Remaining = append(result.Remaining, r.Players[i].SessionID)
		}
	}
	return &result, nil
}

// sessionsOf returns every seated session, in seat order
func sessionsOf(r *model.Room) []model.SessionID {
	out := make([]model.SessionID, len(r.Players))
	for i := range r.Players {
		out[i] = r.Players[i].SessionID
	}
	return out
}
