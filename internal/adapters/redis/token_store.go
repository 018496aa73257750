package redis

// Package redis provides Redis-based adapters for the gym console.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymflow/console/internal/gymapi"
	"github.com/gymflow/console/internal/session"
)

// TokenStore persists the session token pair in Redis so the console
// stays logged in across restarts. Both tokens carry the same TTL,
// bounded by the access token's expiry.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(client redis.UniversalClient) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: "gymconsole:",
	}
}

// NewTokenStoreWithPrefix creates a token store with a custom key prefix.
func NewTokenStoreWithPrefix(client redis.UniversalClient, prefix string) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: prefix,
	}
}

func (s *TokenStore) Save(ctx context.Context, pair gymapi.TokenPair, ttl time.Duration) error {
	if pair.Access == "" {
		return errors.New("access token cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("token ttl must be positive")
	}

	// Both keys are written in one transaction so a crash cannot leave
	// an access token without its refresh counterpart.
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+session.KeyAccessToken, pair.Access, ttl)
	pipe.Set(ctx, s.prefix+session.KeyRefreshToken, pair.Refresh, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save tokens: %w", err)
	}
	return nil
}

func (s *TokenStore) Load(ctx context.Context) (gymapi.TokenPair, error) {
	access, err := s.client.Get(ctx, s.prefix+session.KeyAccessToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return gymapi.TokenPair{}, nil
		}
		return gymapi.TokenPair{}, fmt.Errorf("redis get access token: %w", err)
	}

	refresh, err := s.client.Get(ctx, s.prefix+session.KeyRefreshToken).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return gymapi.TokenPair{}, fmt.Errorf("redis get refresh token: %w", err)
	}

	return gymapi.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	err := s.client.Del(ctx,
		s.prefix+session.KeyAccessToken,
		s.prefix+session.KeyRefreshToken,
	).Err()
	if err != nil {
		return fmt.Errorf("redis delete tokens: %w", err)
	}
	return nil
}
