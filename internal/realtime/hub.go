package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to connected clients.
const (
	EntryCreatedType     = "entry.created"     // a journal entry was created
	ImportCompletedType  = "import.completed"  // a resume import finished
	SummaryGeneratedType = "summary.generated" // an AI summary is ready
)

// Event is one server-push notification. The feed is push-only: clients never
// send anything except pongs.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// Hub fans events out to every open connection of the addressed user. Users
// with no open connections simply miss the event; the feed is a UI refresh
// hint, not a durable queue.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]bool // userID -> connections
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*client]bool)}
}

// Publish sends an event to all of the user's open connections. Payload must
// be JSON-marshalable; marshal failures are logged and dropped.
func (h *Hub) Publish(userID, eventType string, payload interface{}) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[Realtime] Failed to marshal %s payload: %v", eventType, err)
			return
		}
		raw = data
	}

	message, err := json.Marshal(Event{Type: eventType, Payload: raw, At: time.Now().UTC()})
	if err != nil {
		log.Printf("[Realtime] Failed to marshal %s event: %v", eventType, err)
		return
	}

	// The read lock is held across the sends: unregister closes c.send under
	// the write lock, so no channel can be closed mid-loop. The sends are
	// non-blocking, so holding the lock never stalls the publisher.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- message:
		default:
			// Lagging client; drop the event rather than block the publisher.
		}
	}
}

func (h *Hub) register(userID string, c *client) {
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]bool)
	}
	h.clients[userID][c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	if conns, ok := h.clients[userID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, userID)
			}
		}
	}
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is origin-checked by the CORS layer; the socket accepts any
	// origin and relies on the session token for access control.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and streams events for the given user until
// the client disconnects. The caller must have authenticated userID already.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Realtime] Upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	hub.register(userID, c)

	go c.writePump()
	c.readPump(hub, userID)
}

// readPump discards inbound frames and detects disconnects.
func (c *client) readPump(hub *Hub, userID string) {
	defer func() {
		hub.unregister(userID, c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second) // keepalive ping
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
