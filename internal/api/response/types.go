package response

import (
	"time"

	"github.com/battlepigs/battlepigs/internal/model"
)

// RoomPlayer represents a seated player in API responses. Boards and
// shot history are never exposed over the read-only surface.
type RoomPlayer struct {
	Seat        int    `json:"seat"`
	DisplayName string `json:"display_name"`
	Ready       bool   `json:"ready"`
}

// RoomSummary represents a room in API responses
type RoomSummary struct {
	Code      string       `json:"code"`
	Phase     string       `json:"phase"`
	Players   []RoomPlayer `json:"players"`
	Turn      *int         `json:"turn"`
	Winner    *string      `json:"winner"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RoomSummaryFromModel converts a model.Room to a RoomSummary
func RoomSummaryFromModel(room *model.Room) RoomSummary {
	players := make([]RoomPlayer, len(room.Players))
	for i, p := range room.Players {
		players[i] = RoomPlayer{
			Seat:        i,
			DisplayName: p.DisplayName,
			Ready:       p.Ready,
		}
	}

	var turn *int
	if room.Phase == model.PhasePlaying {
		t := int(room.Turn)
		turn = &t
	}

	var winner *string
	if room.Winner != nil {
		if p := room.Player(*room.Winner); p != nil {
			w := p.DisplayName
			winner = &w
		}
	}

	return RoomSummary{
		Code:      string(room.Code),
		Phase:     string(room.Phase),
		Players:   players,
		Turn:      turn,
		Winner:    winner,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
