package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"messenger-service/internal/models"
)

// Store persists a user's online flag and last-seen timestamp.
type Store interface {
	SetOnline(ctx context.Context, userID string, online bool) error
	SetLastSeen(ctx context.Context, userID string) (time.Time, error)
	Get(ctx context.Context, userID string) (models.Presence, error)
}

// RedisStore keeps presence in a per-user Redis hash.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr string, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStore{client: client, prefix: "presence"}, nil
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + ":" + userID
}

// SetOnline persists the user's online flag.
func (s *RedisStore) SetOnline(ctx context.Context, userID string, online bool) error {
	if err := s.client.HSet(ctx, s.key(userID), "online", strconv.FormatBool(online)).Err(); err != nil {
		return fmt.Errorf("set online: %w", err)
	}
	return nil
}

// SetLastSeen records now as the user's last-seen timestamp and returns it.
func (s *RedisStore) SetLastSeen(ctx context.Context, userID string) (time.Time, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.client.HSet(ctx, s.key(userID), "last_seen", now.Format(time.RFC3339Nano)).Err(); err != nil {
		return time.Time{}, fmt.Errorf("set last seen: %w", err)
	}
	return now, nil
}

// Get returns the stored presence for a user. A user never seen before reads
// as offline with no last-seen timestamp.
func (s *RedisStore) Get(ctx context.Context, userID string) (models.Presence, error) {
	values, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return models.Presence{}, fmt.Errorf("get presence: %w", err)
	}

	p := models.Presence{UserID: userID}
	if raw, ok := values["online"]; ok {
		online, err := strconv.ParseBool(raw)
		if err != nil {
			return models.Presence{}, fmt.Errorf("parse online flag: %w", err)
		}
		p.Online = online
	}
	if raw, ok := values["last_seen"]; ok {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.Presence{}, fmt.Errorf("parse last seen: %w", err)
		}
		p.LastSeen = &ts
	}
	return p, nil
}

// Close releases the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
