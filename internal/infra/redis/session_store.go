package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"fishwrapper-service/internal/domain"
)

// SessionStore keeps editor session tokens in Redis so logins survive
// process restarts and are shared across instances.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) PutSession(ctx context.Context, token, username string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(token), username, ttl).Err()
}

func (s *SessionStore) GetSession(ctx context.Context, token string) (string, error) {
	username, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	removed, err := s.client.Del(ctx, s.key(token)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	return "editor:session:" + token
}
