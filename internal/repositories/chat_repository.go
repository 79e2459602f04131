package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository abstracts chat persistence and participant resolution.
type ChatRepository interface {
	CreateOrGetChat(ctx context.Context, userID string, peerID string) (models.Chat, bool, error)
	IsParticipant(ctx context.Context, chatID string, userID string) (bool, error)
	ParticipantsOf(ctx context.Context, chatID string) ([]string, error)
	ListChats(ctx context.Context, userID string) ([]models.ChatSummary, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateOrGetChat returns the 1-on-1 chat between two users, creating it if it
// does not exist yet. The second return value reports whether a new chat was
// created.
func (r *ChatRepo) CreateOrGetChat(ctx context.Context, userID string, peerID string) (models.Chat, bool, error) {
	if userID == peerID {
		return models.Chat{}, false, errors.New("cannot create chat with self")
	}

	var chat models.Chat
	query := `SELECT c.id, c.last_message, c.last_message_at, c.created_at FROM chats c
        JOIN chat_participants p1 ON p1.chat_id = c.id AND p1.user_id=$1
        JOIN chat_participants p2 ON p2.chat_id = c.id AND p2.user_id=$2
        WHERE (SELECT COUNT(*) FROM chat_participants p WHERE p.chat_id = c.id) = 2`
	err := r.db.GetContext(ctx, &chat, query, userID, peerID)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, false, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, false, err
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `INSERT INTO chats (id) VALUES ($1)
        RETURNING id, last_message, last_message_at, created_at`, uuid.NewString()).StructScan(&chat)
	if err != nil {
		return models.Chat{}, false, err
	}
	for _, participant := range []string{userID, peerID} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)`,
			chat.ID, participant); err != nil {
			return models.Chat{}, false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Chat{}, false, err
	}
	return chat, true, nil
}

// IsParticipant checks whether a user belongs to the chat.
func (r *ChatRepo) IsParticipant(ctx context.Context, chatID string, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM chat_participants WHERE chat_id=$1 AND user_id=$2)`,
		chatID, userID)
	return exists, err
}

// ParticipantsOf returns the user ids of everyone in the chat.
func (r *ChatRepo) ParticipantsOf(ctx context.Context, chatID string) ([]string, error) {
	var userIDs []string
	err := r.db.SelectContext(ctx, &userIDs, `SELECT user_id FROM chat_participants WHERE chat_id=$1`, chatID)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, ErrChatNotFound
	}
	return userIDs, nil
}

// ListChats returns chat summaries for the user, most recently active first.
func (r *ChatRepo) ListChats(ctx context.Context, userID string) ([]models.ChatSummary, error) {
	query := `SELECT c.id, c.last_message, c.last_message_at, c.created_at, p.unread_count
        FROM chats c JOIN chat_participants p ON p.chat_id = c.id AND p.user_id=$1
        ORDER BY COALESCE(c.last_message_at, c.created_at) DESC`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ChatSummary
	for rows.Next() {
		var row struct {
			models.Chat
			UnreadCount int `db:"unread_count"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		result = append(result, models.ChatSummary{
			ChatID:        row.ID,
			LastMessage:   row.LastMessage,
			LastMessageAt: row.LastMessageAt,
			UnreadCount:   row.UnreadCount,
			CreatedAt:     row.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		var peers []string
		err := r.db.SelectContext(ctx, &peers, `SELECT user_id FROM chat_participants WHERE chat_id=$1 AND user_id<>$2`,
			result[i].ChatID, userID)
		if err != nil {
			return nil, err
		}
		result[i].PeerIDs = peers
	}
	return result, nil
}
