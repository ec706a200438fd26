package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Session message types
const (
	MsgSnapshot     MessageType = "snapshot"
	MsgStateChanged MessageType = "state_changed"
	MsgScanResult   MessageType = "scan_result"
	MsgScanFailed   MessageType = "scan_failed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session events out to every open connection of an owner
// (one per browser tab or device)
type Hub struct {
	conns map[string]map[*Connection]bool // owner -> connections

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	Owner string
	Send  chan []byte
	Hub   *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	Owner   string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.Owner] == nil {
				h.conns[conn.Owner] = make(map[*Connection]bool)
			}
			h.conns[conn.Owner][conn] = true
			h.mu.Unlock()
			log.Printf("Session stream opened for %s", conn.Owner)

		case conn := <-h.unregister:
			h.mu.Lock()
			if owned, ok := h.conns[conn.Owner]; ok && owned[conn] {
				delete(owned, conn)
				close(conn.Send)
				if len(owned) == 0 {
					delete(h.conns, conn.Owner)
				}
				log.Printf("Session stream closed for %s", conn.Owner)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.Owner] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Connections returns the number of open connections for owner
func (h *Hub) Connections(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[owner])
}

// Publish sends a message to every connection of owner (implements service.Broadcaster)
func (h *Hub) Publish(owner string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", msgType, err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		Owner: owner,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
