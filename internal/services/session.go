package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration matches the original cookie lifetime of one day.
	SessionDuration = 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionService stores bearer-token sessions in Redis.
type SessionService struct {
	rdb *redis.Client
}

func NewSessionService(rdb *redis.Client) *SessionService {
	return &SessionService{rdb: rdb}
}

// Create creates a new session for a user and returns the token. Any
// existing session for the user is invalidated first so the expiry timer
// restarts from this login.
func (s *SessionService) Create(ctx context.Context, userID int64) (string, error) {
	s.InvalidateUser(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + token
	userSessionKey := UserSessionKeyPrefix + strconv.FormatInt(userID, 10)

	if err := s.rdb.Set(ctx, sessionKey, strconv.FormatInt(userID, 10), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, userSessionKey, token, SessionDuration).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Validate checks a session token and returns the user id it belongs to.
func (s *SessionService) Validate(ctx context.Context, token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}

	userIDStr, err := s.rdb.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		return 0, false, nil
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

// Invalidate removes a session (logout).
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionKey := SessionKeyPrefix + token

	userIDStr, err := s.rdb.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		s.rdb.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}
	return s.rdb.Del(ctx, sessionKey).Err()
}

// InvalidateUser removes whatever session a user currently holds.
func (s *SessionService) InvalidateUser(ctx context.Context, userID int64) error {
	userSessionKey := UserSessionKeyPrefix + strconv.FormatInt(userID, 10)

	token, err := s.rdb.Get(ctx, userSessionKey).Result()
	if err == nil && token != "" {
		s.rdb.Del(ctx, SessionKeyPrefix+token)
	}
	return s.rdb.Del(ctx, userSessionKey).Err()
}
