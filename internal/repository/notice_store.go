package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const noticeKeyPrefix = "booking:notice:"

// RedisNoticeStore records which one-off notices a session has dismissed.
type RedisNoticeStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisNoticeStore(client redis.UniversalClient, ttl time.Duration) *RedisNoticeStore {
	return &RedisNoticeStore{client: client, ttl: ttl}
}

func noticeKey(sessionID, name string) string {
	return noticeKeyPrefix + sessionID + ":" + name
}

// IsDismissed reports whether the session has dismissed the notice.
func (s *RedisNoticeStore) IsDismissed(ctx context.Context, sessionID, name string) (bool, error) {
	n, err := s.client.Exists(ctx, noticeKey(sessionID, name)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read notice state: %w", err)
	}
	return n > 0, nil
}

// Dismiss hides the notice for the rest of the session.
func (s *RedisNoticeStore) Dismiss(ctx context.Context, sessionID, name string) error {
	if err := s.client.Set(ctx, noticeKey(sessionID, name), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to dismiss notice: %w", err)
	}
	return nil
}
