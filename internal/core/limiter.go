package core

// limiter.go bounds the number of comparisons parsed at the same time.
//
// Each comparison holds both tables in memory while it runs, so the server
// admits at most maxConcurrent of them. When all slots are busy a request
// waits up to maxWait before failing with ErrTooManyComparisons.
// WaitForDrain supports graceful shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyComparisons is returned when no slot frees up within the wait
// timeout. Clients should retry after a short delay.
var ErrTooManyComparisons = errors.New("too many concurrent comparisons, please try again later")

// DefaultMaxConcurrentComparisons is the default limit for parallel comparisons.
const DefaultMaxConcurrentComparisons = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 10 * time.Second

// CompareLimiter is a counting semaphore for comparison work.
type CompareLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewCompareLimiter allows at most maxConcurrent simultaneous comparisons.
// Non-positive arguments select the defaults.
func NewCompareLimiter(maxConcurrent int, maxWait time.Duration) *CompareLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentComparisons
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &CompareLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. It returns ErrTooManyComparisons when maxWait
// elapses and ctx.Err() when ctx ends first. The caller must Release a
// slot it acquired.
func (l *CompareLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.inc(1)
		return nil
	case <-timer.C:
		return ErrTooManyComparisons
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot if one is free, without blocking.
func (l *CompareLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.inc(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *CompareLimiter) Release() {
	l.inc(-1)
	<-l.semaphore
}

func (l *CompareLimiter) inc(d int) {
	l.mu.Lock()
	l.active += d
	l.mu.Unlock()
}

// ActiveCount returns the number of running comparisons.
func (l *CompareLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the configured slot count.
func (l *CompareLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *CompareLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no comparison is running or ctx ends.
func (l *CompareLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter, served by the health endpoint.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *CompareLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.semaphore),
	}
}
