package auth

import (
	"sync"
	"time"

	"github.com/mrlokans/til/internal/config"
)

const (
	defaultMaxLoginAttempts = 5
	defaultRateLimitWindow  = 15 * time.Minute
	defaultLockoutDuration  = 30 * time.Minute
	rateLimitSweepInterval  = 5 * time.Minute
)

// LoginLimiter counts failed logins per client IP and username. After
// maxAttempts failures inside the window, further attempts are refused until
// the lockout expires. It serves both the login form and the token endpoint.
type LoginLimiter struct {
	mu       sync.Mutex
	failures map[string]*loginFailures
	max      int
	window   time.Duration
	lockout  time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type loginFailures struct {
	count       int
	since       time.Time
	lockedUntil time.Time
}

// NewLoginLimiter builds a limiter from the auth configuration, filling in
// defaults for unset values, and starts its background sweep.
func NewLoginLimiter(cfg config.Auth) *LoginLimiter {
	l := &LoginLimiter{
		failures: make(map[string]*loginFailures),
		max:      cfg.MaxLoginAttempts,
		window:   cfg.RateLimitWindow,
		lockout:  cfg.LockoutDuration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if l.max <= 0 {
		l.max = defaultMaxLoginAttempts
	}
	if l.window <= 0 {
		l.window = defaultRateLimitWindow
	}
	if l.lockout <= 0 {
		l.lockout = defaultLockoutDuration
	}

	go l.sweepLoop()
	return l
}

// Stop ends the background sweep. Safe to call more than once.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func limiterKey(ip, username string) string {
	return ip + "|" + username
}

// Allow reports whether a login attempt may proceed and, if not, how long
// the caller has to wait.
func (l *LoginLimiter) Allow(ip, username string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.failures[limiterKey(ip, username)]
	if !ok {
		return true, 0
	}
	if now.Before(f.lockedUntil) {
		return false, f.lockedUntil.Sub(now)
	}
	if now.Sub(f.since) > l.window {
		return true, 0
	}
	return f.count < l.max, 0
}

// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
func (l *LoginLimiter) RecordFailure(ip, username string) bool {
	now := l.now()
	key := limiterKey(ip, username)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.failures[key]
	if !ok || now.Sub(f.since) > l.window {
		f = &loginFailures{since: now}
		l.failures[key] = f
	}

	f.count++
	if f.count >= l.max {
		f.lockedUntil = now.Add(l.lockout)
		return true
	}
	return false
}

// RecordSuccess forgets earlier failures for this IP and username.
func (l *LoginLimiter) RecordSuccess(ip, username string) {
	l.mu.Lock()
	delete(l.failures, limiterKey(ip, username))
	l.mu.Unlock()
}

func (l *LoginLimiter) sweepLoop() {
	ticker := time.NewTicker(rateLimitSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *LoginLimiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, f := range l.failures {
		if now.Sub(f.since) > l.window && !now.Before(f.lockedUntil) {
			delete(l.failures, key)
		}
	}
}
