package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Conn is the subset of the websocket connection the hub writes to. It keeps
// the hub testable without a live upgrade.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a connected websocket client.
type Client struct {
	ID   string
	Conn Conn

	// writeMu serializes writes; handlers for different inbound events may
	// fan out to the same connection concurrently.
	writeMu sync.Mutex
}

// Envelope is the outbound websocket frame: an event name tagging a payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub tracks websocket connections and their room tags, and delivers
// fire-and-forget fan-out. A connection that has silently dropped simply
// fails to receive; no error is surfaced to the sender.
type Hub struct {
	clients map[string]*Client         // clientID -> Client
	rooms   map[string]map[string]bool // room -> set of clientIDs
	mu      sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]bool),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Printf("[hub] Client %s registered", client.ID)
}

// Unregister removes a client and any room tag it held.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[clientID]; !ok {
		return
	}
	delete(h.clients, clientID)
	for room, members := range h.rooms {
		if members[clientID] {
			delete(members, clientID)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	log.Printf("[hub] Client %s unregistered", clientID)
}

// JoinRoom tags a client with a room, replacing any previous tag. Rooms
// spring into existence on first use and vanish when empty.
func (h *Hub) JoinRoom(clientID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[clientID]; !ok {
		return
	}
	for name, members := range h.rooms {
		if members[clientID] {
			delete(members, clientID)
			if len(members) == 0 {
				delete(h.rooms, name)
			}
		}
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]bool)
	}
	h.rooms[room][clientID] = true
	log.Printf("[hub] Client %s joined room %s", clientID, room)
}

// LeaveRoom removes a client's room tag.
func (h *Hub) LeaveRoom(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for name, members := range h.rooms {
		if members[clientID] {
			delete(members, clientID)
			if len(members) == 0 {
				delete(h.rooms, name)
			}
		}
	}
}

// BroadcastToRoom delivers payload tagged with event to every client tagged
// with room. The member list is snapshotted under the lock and delivery
// happens after releasing it, so slow writes never block joins or leaves.
func (h *Hub) BroadcastToRoom(room, event string, payload any, excludeID string) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("[hub] Failed to marshal %s broadcast: %v", event, err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[room]))
	for clientID := range h.rooms[room] {
		if clientID == excludeID {
			continue
		}
		if client, ok := h.clients[clientID]; ok {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.send(client, data)
	}
}

// SendTo delivers payload tagged with event to a single client.
func (h *Hub) SendTo(clientID, event string, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		log.Printf("[hub] Failed to marshal %s send: %v", event, err)
		return
	}

	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	h.send(client, data)
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients tagged with a room.
func (h *Hub) RoomClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// CloseAll closes every connection and clears hub state.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
}

func (h *Hub) send(client *Client, data []byte) {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()

	if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[hub] Failed to send to client %s: %v", client.ID, err)
	}
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: event, Payload: body})
}
