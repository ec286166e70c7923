package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/trattoria-luca/service-booking/internal/domain/form"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

const (
	draftKeyPrefix      = "booking:draft:"
	submitLockKeyPrefix = "booking:submit-lock:"
)

// releaseLockScript deletes the lock only while it still holds the caller's
// token, so an expired lock taken over by another submit is left alone.
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisDraftStore keeps form drafts per session with a sliding TTL.
type RedisDraftStore struct {
	client   redis.UniversalClient
	ttl      time.Duration
	lockTTL  time.Duration
	newToken func() string
}

// NewRedisDraftStore creates a draft store. ttl applies to drafts, lockTTL
// to the submit lock.
func NewRedisDraftStore(client redis.UniversalClient, ttl, lockTTL time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl, lockTTL: lockTTL, newToken: uuid.NewString}
}

func draftKey(sessionID string) string {
	return draftKeyPrefix + sessionID
}

func submitLockKey(sessionID string) string {
	return submitLockKeyPrefix + sessionID
}

// Get loads the draft of a session.
func (s *RedisDraftStore) Get(ctx context.Context, sessionID string) (form.Draft, error) {
	raw, err := s.client.Get(ctx, draftKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return form.Draft{}, apperr.NewNotFoundError("Draft", sessionID)
	}
	if err != nil {
		return form.Draft{}, fmt.Errorf("failed to load draft: %w", err)
	}

	var d form.Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return form.Draft{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return d, nil
}

// Save stores the draft and refreshes its TTL.
func (s *RedisDraftStore) Save(ctx context.Context, sessionID string, d form.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(sessionID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// AcquireSubmitLock marks a submission in flight and returns the token
// that owns the lock. ok is false when another submission already holds it.
func (s *RedisDraftStore) AcquireSubmitLock(ctx context.Context, sessionID string) (string, bool, error) {
	token := s.newToken()
	ok, err := s.client.SetNX(ctx, submitLockKey(sessionID), token, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseSubmitLock clears the in-flight marker if token still owns it.
func (s *RedisDraftStore) ReleaseSubmitLock(ctx context.Context, sessionID, token string) error {
	if err := s.client.Eval(ctx, releaseLockScript, []string{submitLockKey(sessionID)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}

// SubmitInFlight reports whether a submission currently holds the lock.
func (s *RedisDraftStore) SubmitInFlight(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, submitLockKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check submit lock: %w", err)
	}
	return n > 0, nil
}
