package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(start time.Time) (*Limiter, *MemoryStore, *fakeClock) {
	clock := &fakeClock{t: start}
	store := NewMemoryStore()
	l := New(store)
	l.now = clock.Now
	return l, store, clock
}

func TestCheck_FourthRequestRejected(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rule := Rule{MaxRequests: 3, Window: 24 * time.Hour}

	for _, id := range []string{"goal-submit:1.2.3.4", "goal-submit:5.6.7.8", ""} {
		t.Run(fmt.Sprintf("identifier %q", id), func(t *testing.T) {
			l, _, _ := newTestLimiter(start)

			for i := 1; i <= 3; i++ {
				res, err := l.Check(ctx, id, rule)
				require.NoError(t, err)
				assert.True(t, res.Allowed, "request %d should be allowed", i)
				assert.Equal(t, 3-i, res.Remaining)
				assert.Equal(t, start.Add(24*time.Hour), res.ResetAt)
			}

			res, err := l.Check(ctx, id, rule)
			require.NoError(t, err)
			assert.False(t, res.Allowed)
			assert.Equal(t, 0, res.Remaining)
		})
	}
}

func TestCheck_RejectionDoesNotExtendWindow(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l, _, clock := newTestLimiter(start)
	rule := Rule{MaxRequests: 1, Window: time.Minute}

	res, _ := l.Check(ctx, "k", rule)
	require.True(t, res.Allowed)

	clock.Advance(30 * time.Second)
	res, _ = l.Check(ctx, "k", rule)
	assert.False(t, res.Allowed)
	assert.Equal(t, start.Add(time.Minute), res.ResetAt)
}

func TestCheck_NewWindowAfterReset(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l, _, clock := newTestLimiter(start)
	rule := Rule{MaxRequests: 2, Window: time.Hour}

	for i := 0; i < 2; i++ {
		res, _ := l.Check(ctx, "k", rule)
		require.True(t, res.Allowed)
	}
	res, _ := l.Check(ctx, "k", rule)
	require.False(t, res.Allowed)

	clock.Advance(time.Hour + time.Second)
	res, _ = l.Check(ctx, "k", rule)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, clock.Now().Add(time.Hour), res.ResetAt)
}

func TestCheck_IdentifiersAreIndependent(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLimiter(time.Now())
	rule := Rule{MaxRequests: 1, Window: time.Hour}

	a, _ := l.Check(ctx, "a", rule)
	b, _ := l.Check(ctx, "b", rule)
	assert.True(t, a.Allowed)
	assert.True(t, b.Allowed)
}

func TestCheck_ConcurrentHitsNeverExceedLimit(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLimiter(time.Now())
	rule := Rule{MaxRequests: 10, Window: time.Hour}

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Check(ctx, "shared", rule)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), allowed.Load())
}

func TestPrune_RemovesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l, store, clock := newTestLimiter(start)

	_, _ = l.Check(ctx, "short", Rule{MaxRequests: 5, Window: time.Minute})
	_, _ = l.Check(ctx, "long", Rule{MaxRequests: 5, Window: time.Hour})
	require.Equal(t, 2, store.Len())

	clock.Advance(2 * time.Minute)
	removed, err := l.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
}

func TestPredefinedRules(t *testing.T) {
	assert.Equal(t, Rule{MaxRequests: 3, Window: 24 * time.Hour}, GoalSubmission)
	assert.Equal(t, Rule{MaxRequests: 10, Window: 24 * time.Hour}, GoalReport)
	assert.Equal(t, Rule{MaxRequests: 5, Window: 15 * time.Minute}, AdminLogin)
}
