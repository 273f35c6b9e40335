// Package store holds the most recent conversion result per session so it
// can be restored across reloads. A new run overwrites the slot wholesale.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// resultTTL bounds how long a session's last result is retained.
const resultTTL = 24 * time.Hour

// LastResult is the snapshot of the most recently produced document.
type LastResult struct {
	Filename     string          `json:"filename"`
	Document     json.RawMessage `json:"document"`
	Count        int             `json:"count"`
	FallbackRows int             `json:"fallbackRows"`
	SavedAt      time.Time       `json:"savedAt"`
}

// ResultStore saves and restores the per-session last result. Load returns
// (nil, nil) when the session has no stored result.
type ResultStore interface {
	Save(ctx context.Context, session string, result *LastResult) error
	Load(ctx context.Context, session string) (*LastResult, error)
}

func keyFor(session string) string {
	return "catalog:last_result:" + session
}

// RedisStore keeps last results in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed result store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, session string, result *LastResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	if err := s.client.Set(ctx, keyFor(session), data, resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, session string) (*LastResult, error) {
	data, err := s.client.Get(ctx, keyFor(session)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	var result LastResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to deserialize result: %w", err)
	}
	return &result, nil
}

// MemoryStore is the in-process fallback used when Redis is unavailable.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*LastResult
}

// NewMemoryStore creates an in-memory result store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]*LastResult)}
}

func (s *MemoryStore) Save(ctx context.Context, session string, result *LastResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[session] = result
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, session string) (*LastResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results[session], nil
}
