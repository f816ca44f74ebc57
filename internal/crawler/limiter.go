package crawler

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds how many page fetches may be outstanding at once.
//
// A crawl branch holds a slot only while its own fetch is running and gives it
// back before scheduling its children, so recursive fan-out never waits on a
// slot held by an ancestor.
type Limiter struct {
	sem      *semaphore.Weighted
	inFlight atomic.Int64
}

// NewLimiter creates a Limiter with n slots. n must be at least 1.
func NewLimiter(n int) *Limiter {
	return &Limiter{sem: semaphore.NewWeighted(int64(n))}
}

// Acquire blocks until a slot is free or ctx is done.
// On cancellation the context error is returned and no slot is held.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	l.inFlight.Add(1)
	return nil
}

// Release returns a slot obtained by Acquire.
func (l *Limiter) Release() {
	l.inFlight.Add(-1)
	l.sem.Release(1)
}

// InFlight returns the number of slots currently held.
func (l *Limiter) InFlight() int {
	return int(l.inFlight.Load())
}
