package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/battlepigs/battlepigs/internal/api/response"
	"github.com/battlepigs/battlepigs/internal/model"
	"github.com/battlepigs/battlepigs/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	roomController *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomController *room.Controller) *RoomHandler {
	return &RoomHandler{roomController: roomController}
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := strings.ToUpper(mux.Vars(r)["code"])
	if !validRoomCode(raw) {
		WriteError(w, NewInvalidRequestError("room code must be 4 letters"))
		return
	}
	code := model.RoomCode(raw)

	rm, err := h.roomController.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomSummaryFromModel(rm))
}

func validRoomCode(code string) bool {
	if len(code) != model.RoomCodeLength {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
