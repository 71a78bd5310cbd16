package api

import (
	"strings"
	"sync"
	"time"
)

// quotaCleanupInterval bounds how often expired windows are swept.
// Cleanup happens inline during CheckAndIncrement, no background
// goroutine to manage.
const quotaCleanupInterval = 10 * time.Minute

// Decision is the outcome of one quota check.
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
}

// QuotaConfig configures the message quota.
type QuotaConfig struct {
	AuthedLimit int           // ceiling for authenticated callers
	AnonLimit   int           // ceiling for anonymous callers
	Window      time.Duration // rolling window length
}

// Quota is the per-identity sliding-window message counter. A window is
// created on an identity's first message and expires wholesale; counts
// never persist beyond it.
type Quota struct {
	mu          sync.Mutex
	windows     map[string]*quotaWindow
	lastCleanup time.Time

	authedLimit int
	anonLimit   int
	window      time.Duration
	now         func() time.Time
}

type quotaWindow struct {
	start time.Time
	count int
}

// NewQuota creates the quota counter.
func NewQuota(cfg QuotaConfig) *Quota {
	return &Quota{
		windows:     make(map[string]*quotaWindow),
		lastCleanup: time.Now(),
		authedLimit: cfg.AuthedLimit,
		anonLimit:   cfg.AnonLimit,
		window:      cfg.Window,
		now:         time.Now,
	}
}

// WithClock overrides the clock. For tests.
func (q *Quota) WithClock(now func() time.Time) *Quota {
	q.now = now
	return q
}

// CheckAndIncrement counts one user-authored message against identity
// and reports whether the request may proceed. The count and compare are
// a single atomic step under the lock, so concurrent requests from the
// same identity cannot double-spend the quota.
func (q *Quota) CheckAndIncrement(identity string, isAuthenticated bool) Decision {
	limit := q.anonLimit
	if isAuthenticated {
		limit = q.authedLimit
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	if now.Sub(q.lastCleanup) > quotaCleanupInterval {
		for k, w := range q.windows {
			if now.Sub(w.start) > q.window {
				delete(q.windows, k)
			}
		}
		q.lastCleanup = now
	}

	w, ok := q.windows[identity]
	if !ok || now.Sub(w.start) > q.window {
		w = &quotaWindow{start: now}
		q.windows[identity] = w
	}
	w.count++

	return Decision{Allowed: w.count <= limit, Count: w.count, Limit: limit}
}

// Identity derives the quota key: the lower-cased username when
// authenticated, otherwise an IP-derived anonymous key. Loopback and
// unparseable origins collapse to a fixed local placeholder.
func Identity(username, ip string) string {
	if username != "" {
		return strings.ToLower(username)
	}
	if ip == "" || ip == "127.0.0.1" || ip == "::1" {
		return "anon:local"
	}
	return "anon:" + ip
}
