package reportcache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxEntries = 64

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// Memory is an in-process LRU with per-entry expiry.
type Memory struct {
	cache *lru.Cache[string, memoryEntry]
	ttl   time.Duration
	now   func() time.Time
}

// NewMemory builds a memory cache holding at most maxEntries values for ttl.
// A nil clock uses time.Now.
func NewMemory(maxEntries int, ttl time.Duration, clock func() time.Time) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("reportcache: ttl must be positive, got %s", ttl)
	}
	cache, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("reportcache: %w", err)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Memory{cache: cache, ttl: ttl, now: clock}, nil
}

// Get returns the value for key if it has not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(entry.storedAt) >= m.ttl {
		m.cache.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.cache.Add(key, memoryEntry{value: append([]byte(nil), value...), storedAt: m.now()})
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int { return m.cache.Len() }

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Backend() string            { return "memory" }

// Close drops every entry.
func (m *Memory) Close() error {
	m.cache.Purge()
	return nil
}
