package ws

import (
	"context"
	"log"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

// ReadReceipts clears unread state for one (chat, user) pair and confirms the
// outcome to the requester. Other participants are not notified.
type ReadReceipts struct {
	hub      *Hub
	messages repositories.MessageStore
}

// NewReadReceipts constructs a ReadReceipts synchronizer.
func NewReadReceipts(hub *Hub, messages repositories.MessageStore) *ReadReceipts {
	return &ReadReceipts{hub: hub, messages: messages}
}

// MarkRead marks every message in the chat not sent by the user as seen and
// resets the user's unread counter. The two store calls confirm as a unit:
// the requester sees success only once both have applied. Re-marking an
// already-read chat yields the same outcome.
func (s *ReadReceipts) MarkRead(ctx context.Context, connID string, req ReadPayload) {
	if err := s.messages.MarkSeen(ctx, req.ChatID, req.UserID); err != nil {
		log.Printf("mark seen failed for chat %s: %v", req.ChatID, err)
		_ = s.hub.PushToConn(connID, models.MarkReadErrorEvent("failed to mark messages read"))
		return
	}

	if err := s.messages.ResetUnread(ctx, req.ChatID, req.UserID); err != nil {
		log.Printf("reset unread failed for chat %s: %v", req.ChatID, err)
		_ = s.hub.PushToConn(connID, models.MarkReadErrorEvent("failed to reset unread count"))
		return
	}

	_ = s.hub.PushToConn(connID, models.MarkReadSuccessEvent(req.ChatID, req.UserID))
}
