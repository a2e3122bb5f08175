package ratelimit

import (
	"context"
	"time"
)

// Rule is a fixed-window limit: at most MaxRequests per Window.
type Rule struct {
	MaxRequests int
	Window      time.Duration
}

// Predefined rules
var (
	// GoalSubmission: 3 goals per 24 hours per submitter
	GoalSubmission = Rule{MaxRequests: 3, Window: 24 * time.Hour}
	// GoalReport: 10 reports per 24 hours per reporter
	GoalReport = Rule{MaxRequests: 10, Window: 24 * time.Hour}
	// AdminLogin: 5 attempts per 15 minutes per client
	AdminLogin = Rule{MaxRequests: 5, Window: 15 * time.Minute}
)

// Result of a single check
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store holds window counters keyed by identifier.
//
// Hit must be atomic per key: open a fresh window when none exists or the
// current one has expired, then increment only while count < max.
// The in-memory store only limits within one process. Deployments with
// several instances need a shared Store.
type Store interface {
	Hit(ctx context.Context, key string, rule Rule, now time.Time) (Result, error)
	Prune(ctx context.Context, now time.Time) (int, error)
}

// Limiter applies rules against a Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Limiter {
	return &Limiter{
		store: store,
		now:   time.Now,
	}
}

// NewInMemory returns a limiter backed by process memory.
func NewInMemory() *Limiter {
	return New(NewMemoryStore())
}

// Check counts one request for identifier against rule.
// Fixed windows admit up to 2x MaxRequests across a window boundary.
func (l *Limiter) Check(ctx context.Context, identifier string, rule Rule) (Result, error) {
	return l.store.Hit(ctx, identifier, rule, l.now())
}

// Prune drops expired windows and returns how many were removed.
func (l *Limiter) Prune(ctx context.Context) (int, error) {
	return l.store.Prune(ctx, l.now())
}
