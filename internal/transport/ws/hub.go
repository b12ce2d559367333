package ws

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"todoapi/pkg/logger"
)

// Hub tracks active WebSocket clients and delivers todo events to their
// owner. One connection per user; a new connection replaces the old one.
//
// Shutdown of a client is signalled by closing its done channel, and only
// the Run goroutine ever closes it. A client's send channel is never
// closed: the read path may still be sending on it after the client has
// been replaced or dropped.
type Hub struct {
	// clients maps userID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	deliver    chan *deliverMsg
}

type deliverMsg struct {
	userID uuid.UUID
	data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan *deliverMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	ctx := context.Background()
	for {
		select {
		case client := <-h.register:
			if old, ok := h.clients[client.userID]; ok {
				close(old.done)
			}
			h.clients[client.userID] = client
			logger.Debug(ctx, "ws hub: user connected", "user_id", client.userID, "total", len(h.clients))

		case client := <-h.unregister:
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.done)
				logger.Debug(ctx, "ws hub: user disconnected", "user_id", client.userID, "total", len(h.clients))
			}

		case msg := <-h.deliver:
			client, ok := h.clients[msg.userID]
			if !ok {
				continue
			}
			select {
			case client.send <- msg.data:
			default:
				// Client buffer full - disconnect
				delete(h.clients, msg.userID)
				close(client.done)
			}
		}
	}
}

// SendToUser delivers an event to the user's connection, if any.
func (h *Hub) SendToUser(userID uuid.UUID, evt *Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		logger.Error(context.Background(), "ws hub: marshal error", "error", err)
		return
	}
	h.deliver <- &deliverMsg{userID: userID, data: data}
}
