package crawler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	t.Parallel()

	l := NewLimiter(2)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if l.InFlight() != 2 {
		t.Errorf("InFlight() = %d, want 2", l.InFlight())
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(timeoutCtx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() on full limiter error = %v, want DeadlineExceeded", err)
	}
	if l.InFlight() != 2 {
		t.Errorf("failed Acquire must not hold a slot, InFlight() = %d", l.InFlight())
	}

	l.Release()
	if l.InFlight() != 1 {
		t.Errorf("InFlight() after Release = %d, want 1", l.InFlight())
	}
	if err := l.Acquire(ctx); err != nil {
		t.Errorf("Acquire() after Release error = %v", err)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	t.Parallel()

	l := NewLimiter(1)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Acquire(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire() error = %v, want Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestLimiter_NeverExceedsCapacity(t *testing.T) {
	t.Parallel()

	const (
		capacity = 3
		workers  = 30
	)
	l := NewLimiter(capacity)

	var current, peak atomic.Int32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Error(err)
				return
			}
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			current.Add(-1)
			l.Release()
		}()
	}
	wg.Wait()

	if peak.Load() > capacity {
		t.Errorf("peak concurrency = %d, want <= %d", peak.Load(), capacity)
	}
	if l.InFlight() != 0 {
		t.Errorf("InFlight() after all releases = %d, want 0", l.InFlight())
	}
}
