package ws

import (
	"encoding/json"

	"github.com/battlepigs/battlepigs/internal/model"
	"github.com/battlepigs/battlepigs/internal/services/game"
)

// Client -> server event names
const (
	EventCreateRoom = "create_room"
	EventJoinGame   = "join_game"
	EventPlacePigs  = "place_pigs"
	EventFire       = "fire"
	EventPlayAgain  = "play_again"
)

// Server -> client event names
const (
	EventRoomCreated     = "room_created"
	EventGameStart       = "game_start"
	EventWaitForOpponent = "wait_for_opponent"
	EventBattleStart     = "battle_start"
	EventFireResult      = "fire_result"
	EventOpponentLeft    = "opponent_left"
	EventError           = "error"
)

// Envelope frames every message in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads

// CreateRoomRequest asks for a fresh room with the sender as creator
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// JoinGameRequest asks to take seat 1 of an existing room
type JoinGameRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// PlacePigsRequest submits the sender's fleet placement
type PlacePigsRequest struct {
	Board model.Board `json:"board"`
}

// FireRequest fires one shot. Pointers distinguish absent coordinates
// from a legitimate shot at (0, 0).
type FireRequest struct {
	R *int `json:"r"`
	C *int `json:"c"`
}

// Outbound payloads

// RoomCreated acknowledges room creation to the creator
type RoomCreated struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// GameStart tells one seat its own index and the opponent's name.
// Sent per seat on join and again on every rematch.
type GameStart struct {
	You      int    `json:"you"`
	Opponent string `json:"opponent"`
}

// WaitForOpponent tells the sender their placement is in but the
// opponent's is not
type WaitForOpponent struct{}

// BattleStart announces the playing phase to the whole room
type BattleStart struct {
	Turn int `json:"turn"`
}

// FireResultEvent is the room-wide outcome of one resolved shot
type FireResultEvent struct {
	R          int           `json:"r"`
	C          int           `json:"c"`
	Hit        bool          `json:"hit"`
	Shooter    int           `json:"shooter"`
	Turn       int           `json:"turn"`
	Sunk       *int          `json:"sunk"`
	SunkCells  []model.Coord `json:"sunk_cells,omitempty"`
	SunkName   string        `json:"sunk_name,omitempty"`
	GameOver   bool          `json:"game_over"`
	WinnerName string        `json:"winner_name,omitempty"`
}

// FireResultFromModel converts a game.FireResult into its wire shape
func FireResultFromModel(r *game.FireResult) FireResultEvent {
	ev := FireResultEvent{
		R:          r.Coord.Row,
		C:          r.Coord.Col,
		Hit:        r.Hit,
		Shooter:    int(r.Shooter),
		Turn:       int(r.Turn),
		GameOver:   r.GameOver,
		WinnerName: r.WinnerName,
	}
	if r.Sunk != nil {
		id := int(r.Sunk.ID)
		ev.Sunk = &id
		ev.SunkCells = r.Sunk.Cells
		ev.SunkName = r.Sunk.Name
	}
	return ev
}

// OpponentLeft tells the remaining seat who disconnected
type OpponentLeft struct {
	Name string `json:"name"`
}

// ErrorEvent reports a validation or not-found failure to the sender only
type ErrorEvent struct {
	Msg string `json:"msg"`
}
