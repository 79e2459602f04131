package ws

import (
	"errors"
	"log"

	"messenger-service/internal/models"
	"messenger-service/internal/observability"
)

var ErrConnectionNotFound = errors.New("connection not found")

// Hub combines the connection registry and the session directory and pushes
// events to connections. All fan-out is best effort and independent per
// recipient connection.
type Hub struct {
	registry *Registry
	sessions *SessionDirectory
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{registry: NewRegistry(), sessions: NewSessionDirectory()}
}

// Registry exposes the connection registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Sessions exposes the session directory.
func (h *Hub) Sessions() *SessionDirectory {
	return h.sessions
}

// PushToConn writes one event to a single connection. A failed write closes
// and unregisters the connection.
func (h *Hub) PushToConn(connID string, event models.ServerEvent) error {
	conn, ok := h.registry.Lookup(connID)
	if !ok {
		observability.IncFanoutSkipped(event.Event, "not_registered")
		return ErrConnectionNotFound
	}
	if err := conn.WriteJSON(event); err != nil {
		log.Printf("websocket write error: %v", err)
		conn.Close()
		h.registry.Unregister(connID)
		observability.IncFanoutSkipped(event.Event, "write_error")
		return err
	}
	observability.IncFanoutDelivered(event.Event)
	return nil
}

// PushToUser writes one event to every live connection of the user. A stale
// handle is closed and dropped without affecting delivery to its siblings.
// Returns the number of successful writes; a user with no live connections
// yields zero.
func (h *Hub) PushToUser(userID string, event models.ServerEvent) int {
	delivered := 0
	for _, connID := range h.sessions.ConnectionsOf(userID) {
		conn, ok := h.registry.Lookup(connID)
		if !ok {
			h.sessions.Unbind(userID, connID)
			observability.IncFanoutSkipped(event.Event, "not_registered")
			continue
		}
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.registry.Unregister(connID)
			h.sessions.Unbind(userID, connID)
			observability.IncFanoutSkipped(event.Event, "write_error")
			continue
		}
		delivered++
		observability.IncFanoutDelivered(event.Event)
	}
	return delivered
}
