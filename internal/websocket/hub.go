package statusws

import (
	"encoding/json"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
)

// Hub fans gate-state updates out to the websocket connections of the
// users they concern. The status watcher is the only producer.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	updates    chan *StatusUpdate
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

// StatusUpdate is the payload pushed to a waiting applicant when the
// watcher observes a change in their gate state.
type StatusUpdate struct {
	Type      string `json:"type"`
	UserID    int64  `json:"-"`
	Decision  string `json:"decision"`
	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		updates:    make(chan *StatusUpdate, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case update := <-h.updates:
			h.deliver(update)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Push queues an update for delivery to every connection of the user.
func (h *Hub) Push(userID int64, decision, status string) {
	h.updates <- &StatusUpdate{
		Type:      "status_update",
		UserID:    userID,
		Decision:  decision,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *Hub) deliver(update *StatusUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.Printf("status hub encode update: %v", err)
		return
	}

	set, ok := h.clients[update.UserID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, update.UserID)
	}
}

// ReadPump drains incoming frames so close and control frames are handled;
// clients never send application data on this socket.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
