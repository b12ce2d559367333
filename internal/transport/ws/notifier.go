package ws

import (
	"context"

	"github.com/google/uuid"

	"todoapi/internal/domain"
	"todoapi/pkg/logger"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
// Events only ever go to the owning user's connection.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) TodoCreated(ownerID uuid.UUID, todo *domain.Todo) {
	n.send(ownerID, EventTypeTodoCreated, TodoPayload{Todo: *todo})
}

func (n *HubNotifier) TodoUpdated(ownerID uuid.UUID, todo *domain.Todo) {
	n.send(ownerID, EventTypeTodoUpdated, TodoPayload{Todo: *todo})
}

func (n *HubNotifier) TodoDeleted(ownerID, todoID uuid.UUID) {
	n.send(ownerID, EventTypeTodoDeleted, TodoDeletedPayload{ID: todoID})
}

func (n *HubNotifier) send(ownerID uuid.UUID, eventType string, payload any) {
	evt, err := NewEvent(eventType, payload)
	if err != nil {
		logger.Error(context.Background(), "ws notifier: marshal error", "error", err)
		return
	}
	n.hub.SendToUser(ownerID, evt)
}
