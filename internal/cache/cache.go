// Package cache provides the shared redis connection and a small JSON cache
// used for hot-path lookups (eligibility decisions). Cache errors are never
// fatal; callers treat them as misses.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager wraps redis with JSON encode/decode and a default TTL.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if client == nil {
		return nil
	}
	return &Manager{client: client, ttl: ttl}
}

// GetJSON loads and decodes a cached value. Returns false on miss or any
// redis/decode error.
func (m *Manager) GetJSON(ctx context.Context, key string, dest any) bool {
	if m == nil {
		return false
	}
	raw, err := m.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// SetJSON stores a value under the manager's TTL, best effort.
func (m *Manager) SetJSON(ctx context.Context, key string, value any) {
	if m == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = m.client.Set(ctx, key, raw, m.ttl).Err()
}
