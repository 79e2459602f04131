package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

// MessageStore persists messages together with their chat side effects.
type MessageStore interface {
	CreateMessage(ctx context.Context, chatID string, senderID string, text string, fileURL string) (models.Message, error)
	MarkDelivered(ctx context.Context, messageID string) error
	MarkSeen(ctx context.Context, chatID string, userID string) error
	ResetUnread(ctx context.Context, chatID string, userID string) error
	GetChatMessages(ctx context.Context, chatID string) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed MessageStore.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message and applies its chat side effects in a single
// transaction: insert the row, refresh the chat's last-message summary, and
// bump the unread counter of every participant except the sender. Either all
// of it lands or none of it does.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID string, senderID string, text string, fileURL string) (models.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer tx.Rollback()

	var msg models.Message
	err = tx.QueryRowxContext(ctx, `INSERT INTO messages (id, chat_id, sender_id, content, file_url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, chat_id, sender_id, content, file_url, seen, seen_at, delivered, created_at`,
		uuid.NewString(), chatID, senderID, text, fileURL).StructScan(&msg)
	if err != nil {
		return models.Message{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chats SET last_message=$1, last_message_at=$2 WHERE id=$3`,
		msg.Text, msg.CreatedAt, chatID); err != nil {
		return models.Message{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chat_participants SET unread_count = unread_count + 1
        WHERE chat_id=$1 AND user_id<>$2`, chatID, senderID); err != nil {
		return models.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// MarkDelivered records that the message reached at least one live recipient
// connection.
func (r *MessageRepo) MarkDelivered(ctx context.Context, messageID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET delivered = TRUE WHERE id=$1`, messageID)
	return err
}

// MarkSeen marks every message in the chat not sent by the user as seen.
// Re-marking already-seen messages is a no-op.
func (r *MessageRepo) MarkSeen(ctx context.Context, chatID string, userID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET seen = TRUE, seen_at = NOW()
        WHERE chat_id=$1 AND sender_id<>$2 AND seen = FALSE`, chatID, userID)
	return err
}

// ResetUnread zeroes the user's unread counter for the chat and records the
// read timestamp.
func (r *MessageRepo) ResetUnread(ctx context.Context, chatID string, userID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chat_participants SET unread_count = 0, last_read_at = NOW()
        WHERE chat_id=$1 AND user_id=$2`, chatID, userID)
	return err
}

// GetChatMessages returns the chat history in creation order.
func (r *MessageRepo) GetChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, chat_id, sender_id, content, file_url, seen, seen_at, delivered, created_at
        FROM messages WHERE chat_id=$1 ORDER BY created_at ASC`, chatID)
	return msgs, err
}
