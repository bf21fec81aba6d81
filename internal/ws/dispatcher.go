package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/battlepigs/battlepigs/internal/model"
	"github.com/battlepigs/battlepigs/internal/services/game"
	"github.com/battlepigs/battlepigs/internal/services/room"
)

// Dispatcher is the stateless routing layer between the transport and
// the state machine. Each inbound event maps to exactly one operation;
// the results decide the addressing: sender only, one named seat, or the
// whole room.
//
// Failures follow the error taxonomy: validation and not-found failures
// go back to the sender as an error event; protocol violations (stale or
// misbehaving clients) are dropped without a reply.
type Dispatcher struct {
	rooms  *room.Controller
	games  *game.Controller
	sender Sender
	logger *slog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(rooms *room.Controller, games *game.Controller, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		rooms:  rooms,
		games:  games,
		sender: sender,
		logger: logger.With(slog.String("component", "dispatcher")),
	}
}

// Ensure Dispatcher implements EventHandler
var _ EventHandler = (*Dispatcher)(nil)

// HandleEvent routes one inbound frame
func (d *Dispatcher) HandleEvent(ctx context.Context, id model.SessionID, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.logger.Debug("dropping malformed frame", slog.String("session", string(id)))
		return
	}

	switch env.Event {
	case EventCreateRoom:
		d.handleCreateRoom(ctx, id, env.Data)
	case EventJoinGame:
		d.handleJoinGame(ctx, id, env.Data)
	case EventPlacePigs:
		d.handlePlacePigs(ctx, id, env.Data)
	case EventFire:
		d.handleFire(ctx, id, env.Data)
	case EventPlayAgain:
		d.handlePlayAgain(ctx, id)
	default:
		d.logger.Debug("dropping unknown event",
			slog.String("session", string(id)),
			slog.String("event", env.Event),
		)
	}
}

// HandleDisconnect destroys the session's room and notifies the
// remaining occupant. Sessions not seated anywhere are a no-op.
func (d *Dispatcher) HandleDisconnect(ctx context.Context, id model.SessionID) {
	result, err := d.games.Disconnect(ctx, id)
	if err != nil {
		return
	}
	for _, remaining := range result.Remaining {
		d.sender.Send(remaining, EventOpponentLeft, OpponentLeft{Name: result.LeaverName})
	}
}

func (d *Dispatcher) handleCreateRoom(ctx context.Context, id model.SessionID, data json.RawMessage) {
	var req CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	r, err := d.rooms.CreateRoom(ctx, id, req.Name)
	if err != nil {
		d.emitError(id, err)
		return
	}

	d.sender.Send(id, EventRoomCreated, RoomCreated{
		Code: string(r.Code),
		Name: r.Players[0].DisplayName,
	})
}

func (d *Dispatcher) handleJoinGame(ctx context.Context, id model.SessionID, data json.RawMessage) {
	var req JoinGameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	r, err := d.rooms.JoinRoom(ctx, id, req.Name, req.Code)
	if err != nil {
		d.emitError(id, err)
		return
	}

	// Each seat gets its own pairing: its index and the other's name.
	creator, joiner := r.Players[0], r.Players[1]
	d.sender.Send(joiner.SessionID, EventGameStart, GameStart{
		You:      int(model.SeatJoiner),
		Opponent: creator.DisplayName,
	})
	d.sender.Send(creator.SessionID, EventGameStart, GameStart{
		You:      int(model.SeatCreator),
		Opponent: joiner.DisplayName,
	})
}

func (d *Dispatcher) handlePlacePigs(ctx context.Context, id model.SessionID, data json.RawMessage) {
	var req PlacePigsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	result, err := d.games.SubmitPlacement(ctx, id, req.Board)
	if err != nil {
		d.emitError(id, err)
		return
	}

	if result.Started {
		d.sender.SendMany(result.Sessions, EventBattleStart, BattleStart{Turn: int(result.Turn)})
	} else {
		d.sender.Send(id, EventWaitForOpponent, WaitForOpponent{})
	}
}

func (d *Dispatcher) handleFire(ctx context.Context, id model.SessionID, data json.RawMessage) {
	var req FireRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}
	if req.R == nil || req.C == nil {
		return
	}

	result, err := d.games.Fire(ctx, id, model.Coord{Row: *req.R, Col: *req.C})
	if err != nil {
		// Every fire failure is a protocol violation; never nag the user.
		return
	}

	d.sender.SendMany(result.Sessions, EventFireResult, FireResultFromModel(result))
}

func (d *Dispatcher) handlePlayAgain(ctx context.Context, id model.SessionID) {
	result, err := d.games.PlayAgain(ctx, id)
	if err != nil {
		return
	}

	for _, seat := range result.Seats {
		d.sender.Send(seat.SessionID, EventGameStart, GameStart{
			You:      int(seat.You),
			Opponent: seat.Opponent,
		})
	}
}

// emitError reports user-facing failures to the sender only and
// swallows everything else
func (d *Dispatcher) emitError(id model.SessionID, err error) {
	msg, ok := userMessage(err)
	if !ok {
		d.logger.Debug("dropping event",
			slog.String("session", string(id)),
			slog.String("reason", err.Error()),
		)
		return
	}
	d.sender.Send(id, EventError, ErrorEvent{Msg: msg})
}

// userMessage maps reportable sentinels to their user-facing text
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, model.ErrNameRequired):
		return "Please enter your name", true
	case errors.Is(err, model.ErrRoomNotFound):
		return "Room not found", true
	case errors.Is(err, model.ErrRoomFull):
		return "Room is full", true
	case errors.Is(err, model.ErrInvalidPlacement):
		return "Invalid pig placement", true
	default:
		return "", false
	}
}
