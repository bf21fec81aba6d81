package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/battlepigs/battlepigs/internal/api/handler"
	"github.com/battlepigs/battlepigs/internal/api/middleware"
	"github.com/battlepigs/battlepigs/internal/services/room"
	"github.com/battlepigs/battlepigs/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	Hub            *ws.Hub
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Websocket endpoint. The upgrade handshake manages its own
	// response writing, so it stays off the logging middleware.
	r.HandleFunc("/ws", cfg.Hub.HandleWS).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Read-only room inspection for ops tooling
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
