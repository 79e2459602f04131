package models

import "time"

// Message represents a chat message.
type Message struct {
	ID        string     `db:"id" json:"id"`
	ChatID    string     `db:"chat_id" json:"chat_id"`
	SenderID  string     `db:"sender_id" json:"sender_id"`
	Text      string     `db:"content" json:"text"`
	FileURL   string     `db:"file_url" json:"file_url,omitempty"`
	Seen      bool       `db:"seen" json:"seen"`
	SeenAt    *time.Time `db:"seen_at" json:"seen_at,omitempty"`
	Delivered bool       `db:"delivered" json:"delivered"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
