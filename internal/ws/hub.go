package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/battlepigs/battlepigs/internal/model"
)

// EventHandler consumes inbound frames and transport-level disconnects.
// The dispatcher implements it.
type EventHandler interface {
	HandleEvent(ctx context.Context, id model.SessionID, raw []byte)
	HandleDisconnect(ctx context.Context, id model.SessionID)
}

// Sender delivers outbound events to connected sessions. The hub
// implements it; tests substitute a recording fake.
type Sender interface {
	// Send emits one event to a single session
	Send(id model.SessionID, event string, payload any)
	// SendMany emits one event to each of the given sessions
	SendMany(ids []model.SessionID, event string, payload any)
}

// Hub owns all live websocket clients, keyed by session ID. Each
// connection gets a fresh session ID at upgrade time; that ID is the
// identity the session directory maps to a room.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.SessionID]*Client

	handler  EventHandler
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// Ensure Hub implements Sender
var _ Sender = (*Hub)(nil)

// NewHub creates a new Hub. SetHandler must be called before serving.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.SessionID]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// SetHandler wires the inbound event handler. Separate from NewHub
// because the dispatcher needs the hub as its Sender.
func (h *Hub) SetHandler(handler EventHandler) {
	h.handler = handler
}

// HandleWS upgrades an HTTP request to a websocket connection and serves
// it until the peer goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	sessionID := model.SessionID(uuid.NewString())
	client := newClient(h, conn, sessionID)

	h.mu.Lock()
	h.clients[sessionID] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("session", string(sessionID)),
		slog.Int("total_clients", total),
	)

	go client.writePump()
	client.readPump(r.Context())
}

// drop unregisters a client and runs the disconnect flow exactly once
func (h *Hub) drop(ctx context.Context, c *Client) {
	h.mu.Lock()
	current, ok := h.clients[c.sessionID]
	if !ok || current != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.sessionID)
	c.closeSend()
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client disconnected",
		slog.String("session", string(c.sessionID)),
		slog.Int("total_clients", total),
	)

	h.handler.HandleDisconnect(ctx, c.sessionID)
}

// Send emits one event to a single session. Unknown sessions are ignored;
// the peer may have disconnected between resolution and emit.
func (h *Hub) Send(id model.SessionID, event string, payload any) {
	message, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}
	h.deliver(id, event, message)
}

// SendMany emits one event to each of the given sessions
func (h *Hub) SendMany(ids []model.SessionID, event string, payload any) {
	message, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}
	for _, id := range ids {
		h.deliver(id, event, message)
	}
}

func (h *Hub) deliver(id model.SessionID, event string, message []byte) {
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if !client.enqueue(message) {
		h.logger.Warn("send buffer full, dropping event",
			slog.String("session", string(id)),
			slog.String("event", event),
		)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
