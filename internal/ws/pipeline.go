package ws

import (
	"context"
	"log"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

// Pipeline persists inbound sends and fans confirmed messages out to the
// other chat participants.
type Pipeline struct {
	hub      *Hub
	messages repositories.MessageStore
	chats    repositories.ChatRepository
}

// NewPipeline constructs a Pipeline.
func NewPipeline(hub *Hub, messages repositories.MessageStore, chats repositories.ChatRepository) *Pipeline {
	return &Pipeline{hub: hub, messages: messages, chats: chats}
}

// Send handles one validated send-message event from senderConnID.
//
// The ack is pushed to the originating connection before fan-out is attempted,
// so a client may treat ack receipt as "durably stored" even when live
// delivery to peers is still pending or skipped. A failed create is reported
// to the sender only; other participants are never contacted about it.
func (p *Pipeline) Send(ctx context.Context, senderConnID string, req SendPayload) {
	msg, err := p.messages.CreateMessage(ctx, req.ChatID, req.SenderID, req.Text, req.FileURL)
	if err != nil {
		log.Printf("create message failed for chat %s: %v", req.ChatID, err)
		_ = p.hub.PushToConn(senderConnID, models.MessageErrorEvent(req.TempID, "failed to send message"))
		return
	}

	_ = p.hub.PushToConn(senderConnID, models.MessageAckEvent(msg, req.TempID))

	participants, err := p.chats.ParticipantsOf(ctx, req.ChatID)
	if err != nil {
		log.Printf("resolve participants for chat %s: %v", req.ChatID, err)
		return
	}

	copied := msg
	copied.Delivered = true
	event := models.MessageDeliveredEvent(copied)
	delivered := 0
	for _, userID := range participants {
		if userID == req.SenderID {
			continue
		}
		delivered += p.hub.PushToUser(userID, event)
	}

	if delivered > 0 {
		if err := p.messages.MarkDelivered(ctx, msg.ID); err != nil {
			log.Printf("mark delivered for message %s: %v", msg.ID, err)
		}
	}
}
