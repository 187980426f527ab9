package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryHitCounter is the in-process fallback counter. Entries reset when
// their window expires; there is no background cleanup, stale entries are
// rewritten on next use.
type MemoryHitCounter struct {
	mu   sync.Mutex
	hits map[string]*hitEntry
}

type hitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryHitCounter() *MemoryHitCounter {
	return &MemoryHitCounter{hits: make(map[string]*hitEntry)}
}

func (r *MemoryHitCounter) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.hits[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &hitEntry{count: 1, expiresAt: now.Add(window)}
		r.hits[key] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}
