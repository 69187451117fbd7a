package ws_room

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/VICHiNG16/MusicDuel/internal/model"
	usecase_game "github.com/VICHiNG16/MusicDuel/internal/usecase/game"
)

type EventType string

const (
	EventRoom  EventType = "room"
	EventError EventType = "error"
)

type Event struct {
	Type    EventType   `json:"type"`
	Room    *model.Room `json:"room,omitempty"`
	Message string      `json:"message,omitempty"`
}

type inboundMessage struct {
	Type   string `json:"type"`
	Option string `json:"option,omitempty"`
}

// Client is one websocket peer attached to a room. Its Session carries the
// per-peer game state; cancel tears down the session (and, for the host, the
// engine) together with the connection.
type Client struct {
	Conn     *websocket.Conn
	Send     chan []byte
	RoomCode string
	Role     model.Role

	session *usecase_game.Session
	ctx     context.Context
	cancel  context.CancelFunc

	// mu orders Push against shutdown: the session's snapshot callbacks run
	// on the store's delivery goroutine and can race the connection teardown.
	mu     sync.Mutex
	closed bool
}

// Push queues an event for the client, dropping it if the client cannot keep
// up or is already torn down; the next room snapshot supersedes anything
// dropped.
func (c *Client) Push(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// shutdown closes Send exactly once, under the same lock Push sends under.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

type Hub struct {
	mu sync.RWMutex

	// Client sets per room code.
	rooms map[string]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[*Client]bool),
		logger: logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[client.RoomCode]; !ok {
		h.rooms[client.RoomCode] = make(map[*Client]bool)
	}
	h.rooms[client.RoomCode][client] = true

	h.logger.Info("client registered", "room", client.RoomCode, "role", client.Role)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[client.RoomCode]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.RoomCode)
		}
	}
	h.mu.Unlock()

	client.shutdown()
	client.cancel()

	h.logger.Info("client unregistered", "room", client.RoomCode, "role", client.Role)
}

// StartClientReading pumps inbound frames into the client's session until
// the connection drops, then tears the client down.
func (h *Hub) StartClientReading(client *Client) {
	defer func() {
		h.RemoveClient(client)
		client.Conn.Close()
	}()

	for {
		_, payload, err := client.Conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			client.Push(Event{Type: EventError, Message: "bad message"})
			continue
		}
		h.dispatch(client, msg)
	}
}

func (h *Hub) dispatch(client *Client, msg inboundMessage) {
	switch msg.Type {
	case "guess":
		if err := client.session.Guess(client.ctx, msg.Option); err != nil {
			client.Push(Event{Type: EventError, Message: err.Error()})
		}
	case "next_round":
		if err := client.session.VoteNextRound(client.ctx); err != nil {
			client.Push(Event{Type: EventError, Message: err.Error()})
		}
	default:
		client.Push(Event{Type: EventError, Message: "unknown message type"})
	}
}

func (h *Hub) StartClientWriting(client *Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
