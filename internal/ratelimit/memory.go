package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in a map guarded by a mutex.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string, rule Rule, now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || w.resetAt.Before(now) {
		w = &window{
			count:   0,
			resetAt: now.Add(rule.Window),
		}
		s.windows[key] = w
	}

	if w.count >= rule.MaxRequests {
		return Result{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   w.resetAt,
		}, nil
	}

	w.count++

	return Result{
		Allowed:   true,
		Remaining: rule.MaxRequests - w.count,
		ResetAt:   w.resetAt,
	}, nil
}

func (s *MemoryStore) Prune(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if w.resetAt.Before(now) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of tracked identifiers.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
