package room

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	roommodel "github.com/luokai/emberroom/backend/internal/model/room"
	roomservice "github.com/luokai/emberroom/backend/internal/service/room"
)

const readWait = 60 * time.Second

// WebSocketHandler joins clients into rooms and relays their message and
// summarize events to the coordinator.
type WebSocketHandler struct {
	store    *roommodel.Store
	svc      *roomservice.Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler wires the websocket transport.
func NewWebSocketHandler(store *roommodel.Store, svc *roomservice.Service, hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{
		store: store,
		svc:   svc,
		hub:   hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{roomCode}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type textPayload struct {
	Text string `json:"text"`
}

// handleWebSocket upgrades the connection, joins the room, and runs the read
// loop until disconnect or room closure.
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "roomCode")
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	if !h.store.Exists(roomCode) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}

	connID := uuid.NewString()
	c := &client{id: connID, conn: conn, send: make(chan roomservice.Event, sendBufferSize)}
	h.hub.register(roomCode, c)
	go c.writePump()

	// Register before joining so the joiner receives its own join event.
	if err := h.svc.Join(roomCode, name, connID); err != nil {
		// The room can be reaped between the existence check and here.
		h.sendError(c, errorMessage(err))
		h.hub.unregister(roomCode, c)
		return
	}

	log.Printf("[websocket] conn=%s joined room=%s as %q", connID, roomCode, name)

	c.send <- roomservice.Event{
		Type:      "connected",
		RoomCode:  roomCode,
		Data:      map[string]any{"name": name, "connectionId": connID},
		Timestamp: time.Now().Unix(),
	}

	h.readLoop(r.Context(), c, roomCode, name)

	h.svc.Leave(roomCode, connID)
	h.hub.unregister(roomCode, c)
	log.Printf("[websocket] conn=%s left room=%s", connID, roomCode)
}

func (h *WebSocketHandler) readLoop(ctx context.Context, c *client, roomCode, name string) {
	c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error conn=%s: %v", c.id, err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readWait))

		switch msg.Type {
		case "message":
			var payload textPayload
			if err := json.Unmarshal(msg.Data, &payload); err != nil {
				h.sendError(c, "invalid message payload")
				continue
			}
			if err := h.svc.SendMessage(roomCode, name, payload.Text); err != nil {
				h.sendError(c, errorMessage(err))
			}
		case "summarize":
			if err := h.svc.RequestSummary(ctx, roomCode, c.id); err != nil {
				h.sendError(c, errorMessage(err))
			}
		default:
			h.sendError(c, "unsupported message type: "+msg.Type)
		}
	}
}

// sendError delivers an error frame to this connection only.
func (h *WebSocketHandler) sendError(c *client, message string) {
	event := roomservice.Event{
		Type:      roomservice.EventError,
		Data:      map[string]any{"message": message},
		Timestamp: time.Now().Unix(),
	}
	select {
	case c.send <- event:
	default:
	}
}

// errorMessage maps coordinator errors onto client-facing text.
func errorMessage(err error) string {
	var verr *roomservice.ValidationError
	switch {
	case errors.Is(err, roommodel.ErrNotFound):
		return "room not found"
	case errors.Is(err, roommodel.ErrRoomFull):
		return "room message limit reached"
	case errors.Is(err, roommodel.ErrEmptyRoom):
		return "nothing to summarize yet"
	case errors.Is(err, roommodel.ErrAlreadySummarizing):
		return "summary already in progress"
	case errors.Is(err, roommodel.ErrClosed):
		return "room is closed"
	case errors.As(err, &verr):
		return verr.Error()
	default:
		return "internal error"
	}
}
