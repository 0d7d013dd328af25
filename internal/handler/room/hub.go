package room

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	roomservice "github.com/luokai/emberroom/backend/internal/service/room"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 32
)

// client is one websocket connection inside a room. All writes to the
// connection go through the send channel so the write pump is the only
// writer.
type client struct {
	id   string
	conn *websocket.Conn
	send chan roomservice.Event
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings. Exits when send is closed.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Printf("[websocket] write failed conn=%s: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub tracks the websocket connections of each room and fans room events out
// to them. It implements the coordinator's EventSink.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*client
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*client)}
}

func (h *Hub) register(roomCode string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[roomCode]
	if !ok {
		clients = make(map[string]*client)
		h.rooms[roomCode] = clients
	}
	clients[c.id] = c
}

// unregister removes the client and closes its send channel. The channel is
// only closed after the client left the map, so fan-out never writes to a
// closed channel.
func (h *Hub) unregister(roomCode string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	if _, ok := clients[c.id]; !ok {
		return
	}
	delete(clients, c.id)
	if len(clients) == 0 {
		delete(h.rooms, roomCode)
	}
	close(c.send)
}

// Broadcast delivers event to every connection in the room, best effort.
// Clients with a full send buffer miss the event rather than stalling the
// rest of the room.
func (h *Hub) Broadcast(roomCode string, event roomservice.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomCode] {
		select {
		case c.send <- event:
		default:
			log.Printf("[websocket] dropping event type=%s for slow conn=%s", event.Type, c.id)
		}
	}
}

// Send delivers event to a single connection in the room, if it is still
// registered.
func (h *Hub) Send(roomCode, connID string, event roomservice.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.rooms[roomCode][connID]
	if !ok {
		return
	}
	select {
	case c.send <- event:
	default:
		log.Printf("[websocket] dropping event type=%s for slow conn=%s", event.Type, c.id)
	}
}
