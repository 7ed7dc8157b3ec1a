package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
)

const defaultSessionTTL = 24 * time.Hour

// RedisSessionStore implements checkout.Store using Redis. Sessions
// are ephemeral checkout context, so they live under a TTL instead of
// in the relational store.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSessionStore creates a new Redis-backed session store
func NewRedisSessionStore(cfg RedisConfig, ttl time.Duration) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSessionStoreWithClient(client, ttl), nil
}

// NewRedisSessionStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisSessionStoreWithClient(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisSessionStore{
		client:    client,
		keyPrefix: "checkout:session:",
		ttl:       ttl,
	}
}

// Save writes the session, refreshing its TTL
func (s *RedisSessionStore) Save(ctx context.Context, session *checkout.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+session.ID.String(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store checkout session: %w", err)
	}
	return nil
}

// Find loads a session by ID
func (s *RedisSessionStore) Find(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+id.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var session checkout.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.keyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// Ensure RedisSessionStore implements checkout.Store
var _ checkout.Store = (*RedisSessionStore)(nil)

// sessionEntry is a stored session with expiration
type sessionEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemorySessionStore implements checkout.Store using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemorySessionStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]sessionEntry
	ttl     time.Duration
}

// NewInMemorySessionStore creates a new in-memory session store
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &InMemorySessionStore{
		entries: make(map[uuid.UUID]sessionEntry),
		ttl:     ttl,
	}
}

// Save writes the session, refreshing its TTL. Sessions are stored as
// encoded snapshots so callers never share mutable state through the
// store, matching the Redis behavior.
func (s *InMemorySessionStore) Save(ctx context.Context, session *checkout.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[session.ID] = sessionEntry{
		data:      data,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.evictExpiredLocked()
	return nil
}

// Find loads a session by ID
func (s *InMemorySessionStore) Find(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	s.mu.RLock()
	entry, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return nil, shared.ErrNotFound
	}

	var session checkout.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *InMemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// evictExpiredLocked drops expired entries. Called with the write lock
// held on every save, which keeps the map bounded without a background
// goroutine.
func (s *InMemorySessionStore) evictExpiredLocked() {
	now := time.Now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Ensure InMemorySessionStore implements checkout.Store
var _ checkout.Store = (*InMemorySessionStore)(nil)
