package chat

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"servimarket/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// WSEvent is a real-time event pushed to clients. Events are hints: clients
// reconcile with GET /chats/:id/messages?after=.
type WSEvent struct {
	Type    string      `json:"type"`
	RoomID  string      `json:"room_id"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventNewMessage = "new_message"
	EventChatStatus = "chat_status"
	EventRead       = "read"
	EventTyping     = "typing"
)

// RoomAuthorizer decides whether a user may subscribe to a chat room.
type RoomAuthorizer func(ctx context.Context, userID int64, roomID string) bool

type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]bool
}

// Hub keeps one live connection per user and fans chat events out to the
// members of each room.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection
	authorize   RoomAuthorizer
}

func NewHub(authorize RoomAuthorizer) *Hub {
	return &Hub{
		connections: make(map[int64]*connection),
		authorize:   authorize,
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.connections[c.userID]; ok && old != c {
		close(old.send)
	}
	h.connections[c.userID] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.userID]; ok && existing == c {
		delete(h.connections, c.userID)
		close(c.send)
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// BroadcastToRoom sends an event to every connected member of a room.
func (h *Hub) BroadcastToRoom(roomID string, event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.connections {
		if !c.rooms[roomID] {
			continue
		}
		select {
		case c.send <- data:
		default:
			// slow client, it will catch up on the next poll
		}
	}
}

func (h *Hub) PublishMessage(chatID string, msg *domain.Message) {
	h.BroadcastToRoom(chatID, &WSEvent{Type: EventNewMessage, RoomID: chatID, Payload: msg})
}

func (h *Hub) PublishChatStatus(chatID string, active bool) {
	h.BroadcastToRoom(chatID, &WSEvent{Type: EventChatStatus, RoomID: chatID, Payload: map[string]bool{"is_active": active}})
}

func (h *Hub) PublishRead(chatID string, readerID int64) {
	h.BroadcastToRoom(chatID, &WSEvent{Type: EventRead, RoomID: chatID, Payload: map[string]int64{"user_id": readerID}})
}

// ServeWS registers a new connection and runs its read/write loops. It blocks
// until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64, initialRooms []string) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
	}
	for _, rid := range initialRooms {
		c.rooms[rid] = true
	}

	h.register(c)
	log.Printf("ws_connected user_id=%d rooms=%d", userID, len(initialRooms))

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) subscribe(c *connection, roomID string) {
	if roomID == "" {
		return
	}
	if h.authorize != nil && !h.authorize(context.Background(), c.userID, roomID) {
		log.Printf("ws_subscribe_denied user_id=%d room_id=%s", c.userID, roomID)
		return
	}
	h.mu.Lock()
	c.rooms[roomID] = true
	h.mu.Unlock()
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		log.Printf("ws_disconnected user_id=%d", c.userID)
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var event struct {
			Type   string `json:"type"`
			RoomID string `json:"room_id"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}

		switch event.Type {
		case "subscribe":
			h.subscribe(c, event.RoomID)
		case "unsubscribe":
			h.mu.Lock()
			delete(c.rooms, event.RoomID)
			h.mu.Unlock()
		case "typing":
			h.mu.RLock()
			member := c.rooms[event.RoomID]
			h.mu.RUnlock()
			if member {
				h.BroadcastToRoom(event.RoomID, &WSEvent{
					Type:    EventTyping,
					RoomID:  event.RoomID,
					Payload: map[string]int64{"user_id": c.userID},
				})
			}
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
