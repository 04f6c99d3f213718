package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionStore keeps opaque bearer tokens in Redis. One live session per user:
// a new login invalidates the previous token so the 7-day timer restarts.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create mints a session token for a user and stores it with a 7-day TTL.
func (s *SessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	// Invalidate any existing session for this user first
	s.InvalidateUser(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.rdb.Set(ctx, SessionKeyPrefix+token, userID.String(), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, UserSessionKeyPrefix+userID.String(), token, SessionDuration).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Validate checks a session token and returns the owning user ID.
func (s *SessionStore) Validate(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, err := s.rdb.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		// Missing key and transport errors both read as "not authenticated"
		return uuid.Nil, false, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}

// Invalidate removes a session token and its reverse mapping.
func (s *SessionStore) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	userIDStr, err := s.rdb.Get(ctx, SessionKeyPrefix+token).Result()
	if err == nil && userIDStr != "" {
		s.rdb.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}
	return s.rdb.Del(ctx, SessionKeyPrefix+token).Err()
}

// InvalidateUser drops whatever session the user currently holds.
func (s *SessionStore) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	userKey := UserSessionKeyPrefix + userID.String()

	token, err := s.rdb.Get(ctx, userKey).Result()
	if err == nil && token != "" {
		s.rdb.Del(ctx, SessionKeyPrefix+token)
	}
	return s.rdb.Del(ctx, userKey).Err()
}
