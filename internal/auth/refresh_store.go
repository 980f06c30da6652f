package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ErrRefreshTokenInvalid signals an unknown, expired, or already
// rotated refresh token.
var ErrRefreshTokenInvalid = errors.New("refresh token invalid")

// RefreshStore keeps opaque refresh tokens in Redis. Tokens are
// single-use: Rotate deletes the presented token and issues a new one,
// so a replayed token fails.
type RefreshStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRefreshStore builds a store with the given token lifetime.
func NewRefreshStore(client *redis.Client, ttlDays int) *RefreshStore {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return &RefreshStore{client: client, ttl: time.Duration(ttlDays) * 24 * time.Hour}
}

// Issue creates and stores a fresh token for the user.
func (s *RefreshStore) Issue(ctx context.Context, userID string, role domain.UserRole) (string, error) {
	token := uuid.NewString()
	value := userID + "|" + string(role)
	if err := s.client.Set(ctx, refreshKey(token), value, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate consumes the presented token and issues a replacement.
func (s *RefreshStore) Rotate(ctx context.Context, token string) (userID string, role domain.UserRole, next string, err error) {
	value, err := s.client.GetDel(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return "", "", "", ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", "", "", err
	}

	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 {
		return "", "", "", ErrRefreshTokenInvalid
	}
	userID, role = parts[0], domain.UserRole(parts[1])

	next, err = s.Issue(ctx, userID, role)
	if err != nil {
		return "", "", "", err
	}
	return userID, role, next, nil
}

// Revoke deletes a token; revoking an unknown token is not an error.
func (s *RefreshStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, refreshKey(token)).Err()
}

func refreshKey(token string) string {
	return fmt.Sprintf("refresh:%s", token)
}
