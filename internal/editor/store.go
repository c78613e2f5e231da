package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/redis"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("editor: session not found")

// SessionStore persists edit sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Find(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisSessionStore keeps sessions as JSON blobs with a sliding TTL, so an
// abandoned edit expires on its own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore builds a store backed by the shared redis client.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) (*RedisSessionStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return fmt.Errorf("session required")
	}
	session.UpdatedAt = time.Now().UTC()
	key := s.client.SessionKey(session.ID.String())
	return s.client.SetJSON(ctx, key, session, s.ttl)
}

func (s *RedisSessionStore) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	var session Session
	key := s.client.SessionKey(id.String())
	if err := s.client.GetJSON(ctx, key, &session); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, s.client.SessionKey(id.String()))
}
