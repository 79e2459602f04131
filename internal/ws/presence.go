package ws

import (
	"context"
	"fmt"
	"time"

	"messenger-service/internal/models"
	"messenger-service/internal/presence"
	"messenger-service/internal/repositories"
)

// Broadcaster persists presence transitions and pushes status updates to the
// user's contacts.
type Broadcaster struct {
	hub      *Hub
	presence presence.Store
	contacts repositories.ContactRepository
}

// NewBroadcaster constructs a Broadcaster.
func NewBroadcaster(hub *Hub, store presence.Store, contacts repositories.ContactRepository) *Broadcaster {
	return &Broadcaster{hub: hub, presence: store, contacts: contacts}
}

// Announce records the presence transition and pushes a status-update to every
// live connection of every contact, plus the user's own connections so a
// multi-device user's other sessions learn of the change. A store failure
// aborts before any broadcast; the caller must retry on its own. A contact
// with no live connections is silently skipped.
func (b *Broadcaster) Announce(ctx context.Context, userID string, online bool) error {
	var lastSeen *time.Time
	if !online {
		ts, err := b.presence.SetLastSeen(ctx, userID)
		if err != nil {
			return fmt.Errorf("set last seen: %w", err)
		}
		lastSeen = &ts
	}

	if err := b.presence.SetOnline(ctx, userID, online); err != nil {
		return fmt.Errorf("set online: %w", err)
	}

	contacts, err := b.contacts.ContactsOf(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve contacts: %w", err)
	}

	event := models.StatusUpdateEvent(userID, online, lastSeen)
	for _, contactID := range contacts {
		b.hub.PushToUser(contactID, event)
	}
	b.hub.PushToUser(userID, event)
	return nil
}
