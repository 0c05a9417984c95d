package auth

import (
	"context"
	"errors"
	"time"
)

const (
	revokedTokenKeyPrefix = "blacklist:access_token:"
	revokedUserKeyPrefix  = "blacklist:user:"
)

// ErrTokenRevoked is returned for a token presented after signout.
var ErrTokenRevoked = errors.New("token has been revoked")

// Cache is the subset of the cache client used for token revocation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TokenStoreInterface defines the interface for token revocation.
type TokenStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// RevokeUser invalidates every token issued to userID for ttl.
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string) (bool, error)
}

// TokenStore keeps revoked token IDs in Redis until the token would have expired anyway.
type TokenStore struct {
	cache Cache
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache Cache) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeToken adds a token ID to the revocation list for ttl.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked checks if a token ID was revoked.
// Cache failures read as not revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.has(ctx, revokedTokenKeyPrefix+tokenID), nil
}

// RevokeUser marks userID revoked for ttl, which should cover the token lifetime.
func (s *TokenStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if userID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedUserKeyPrefix+userID, []byte("1"), ttl)
}

// IsUserRevoked checks if every token of userID was revoked.
func (s *TokenStore) IsUserRevoked(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.has(ctx, revokedUserKeyPrefix+userID), nil
}

func (s *TokenStore) has(ctx context.Context, key string) bool {
	data, err := s.cache.Get(ctx, key)
	return err == nil && data != nil
}
