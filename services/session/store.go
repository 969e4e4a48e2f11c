// Package session keeps the slots surfaced by an availability query so that a later
// booking can be checked against them.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"introcall/models"
	"introcall/utils"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("availability session not found")

// Store persists availability sessions.
type Store interface {
	// Save creates or replaces a session and restarts its TTL.
	Save(ctx context.Context, s *models.AvailabilitySession) error
	// Get reads a session without touching its TTL.
	Get(ctx context.Context, id string) (*models.AvailabilitySession, error)
	// Invalidate removes a session. Removing an unknown session is not an error.
	Invalidate(ctx context.Context, id string) error
}

// RedisStore implements Store on Redis strings holding JSON.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store on client; ttl <= 0 means 30 minutes.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string {
	return utils.SessionKeyPrefix + id
}

// Save saves the session in Redis with the store TTL.
func (r *RedisStore) Save(ctx context.Context, s *models.AvailabilitySession) error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal availability session: %w", err)
	}
	if err := r.client.Set(ctx, key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save availability session: %w", err)
	}
	return nil
}

// Get retrieves the session from Redis.
func (r *RedisStore) Get(ctx context.Context, id string) (*models.AvailabilitySession, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load availability session: %w", err)
	}
	var s models.AvailabilitySession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal availability session: %w", err)
	}
	return &s, nil
}

// Invalidate removes the session from Redis.
func (r *RedisStore) Invalidate(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete availability session: %w", err)
	}
	return nil
}
