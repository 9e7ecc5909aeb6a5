// Package ratelimit throttles repeated failed sign-in attempts per email address.
//
// A Limiter is created once at process start and lives for the process lifetime. Records
// are cleared only when their window or lockout expires or when Reset is called after a
// successful sign-in. With a RedisStore the records are shared between processes and
// survive restarts.
package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MaxAttempts     = 5
	LockoutDuration = 15 * time.Minute
	AttemptWindow   = 5 * time.Minute
)

var (
	failedSignIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_auth_failed_signins_total",
		Help: "Total number of failed sign-in attempts recorded by the rate limiter",
	})

	rejectedSignIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_auth_rejected_signins_total",
		Help: "Total number of sign-in attempts rejected while an email was locked out",
	})

	lockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_auth_lockouts_total",
		Help: "Total number of times an email reached the failed attempt limit",
	})
)

// Record is the failure history kept for one email.
type Record struct {
	Count       int       `json:"count"`
	LastAttempt time.Time `json:"last_attempt"`
}

// Decision is the outcome of Check. Remaining is set only when the attempt is rejected.
type Decision struct {
	Allowed   bool
	Remaining time.Duration
}

type Limiter struct {
	store       Store
	now         func() time.Time
	maxAttempts int
	lockout     time.Duration
	window      time.Duration

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

type Option func(*Limiter)

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

func WithMaxAttempts(n int) Option {
	return func(l *Limiter) {
		l.maxAttempts = n
	}
}

func WithLockout(d time.Duration) Option {
	return func(l *Limiter) {
		l.lockout = d
	}
}

func WithWindow(d time.Duration) Option {
	return func(l *Limiter) {
		l.window = d
	}
}

func New(store Store, opts ...Option) *Limiter {
	l := &Limiter{
		store:       store,
		now:         time.Now,
		maxAttempts: MaxAttempts,
		lockout:     LockoutDuration,
		window:      AttemptWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.store == nil {
		l.store = NewMemoryStore()
	}
	return l
}

// Key normalizes an email the same way sign-in does, so "  A@B.io" and "a@b.io" share a record.
func Key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check reports whether a sign-in attempt for email may proceed. An email that reached the
// attempt limit stays locked until the lockout, anchored to its last failure, has elapsed.
// Expired records are cleared on the way.
func (l *Limiter) Check(ctx context.Context, email string) (Decision, error) {
	key := Key(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return Decision{Allowed: true}, nil
	}

	now := l.now()
	if record.Count >= l.maxAttempts {
		unlockAt := record.LastAttempt.Add(l.lockout)
		if now.Before(unlockAt) {
			rejectedSignIns.Inc()
			return Decision{Allowed: false, Remaining: unlockAt.Sub(now)}, nil
		}
		return Decision{Allowed: true}, l.store.Delete(ctx, key)
	}

	if now.Sub(record.LastAttempt) > l.window {
		return Decision{Allowed: true}, l.store.Delete(ctx, key)
	}

	return Decision{Allowed: true}, nil
}

// RecordFailure counts a failed attempt. A failure outside the window of the previous one
// starts a fresh count.
func (l *Limiter) RecordFailure(ctx context.Context, email string) (Record, error) {
	key := Key(email)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	record, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return Record{}, err
	}

	if !ok || now.Sub(record.LastAttempt) > l.window {
		record = Record{Count: 1, LastAttempt: now}
	} else {
		record.Count++
		record.LastAttempt = now
	}

	if err := l.store.Put(ctx, key, record, l.ttl()); err != nil {
		return Record{}, err
	}

	failedSignIns.Inc()
	if record.Count == l.maxAttempts {
		lockouts.Inc()
	}
	return record, nil
}

// Reset forgets every failure for email. Resetting an unknown email is a no-op.
func (l *Limiter) Reset(ctx context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Delete(ctx, Key(email))
}

// records are useless once both the window and the lockout have passed
func (l *Limiter) ttl() time.Duration {
	if l.lockout > l.window {
		return l.lockout
	}
	return l.window
}
