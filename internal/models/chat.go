package models

import "time"

// Chat represents a conversation between two or more users.
type Chat struct {
	ID            string     `db:"id" json:"id"`
	LastMessage   string     `db:"last_message" json:"last_message"`
	LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Participant links a user to a chat and carries their unread state.
type Participant struct {
	ChatID      string     `db:"chat_id" json:"chat_id"`
	UserID      string     `db:"user_id" json:"user_id"`
	UnreadCount int        `db:"unread_count" json:"unread_count"`
	LastReadAt  *time.Time `db:"last_read_at" json:"last_read_at,omitempty"`
}

// Contact is a named address-book entry owned by one user.
type Contact struct {
	OwnerID   string `db:"owner_id" json:"owner_id"`
	ContactID string `db:"contact_id" json:"contact_id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// ChatSummary provides API-friendly view of a chat for a user.
type ChatSummary struct {
	ChatID        string     `json:"chat_id"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count"`
	PeerIDs       []string   `json:"peer_ids"`
	CreatedAt     time.Time  `json:"created_at"`
}
