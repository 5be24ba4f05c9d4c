package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/til/internal/config"
)

func TestSanitizeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"/acronyms/1":          "/acronyms/1",
		"/acronyms/create?x=1": "/acronyms/create?x=1",
		"":                     "/",
		"acronyms":             "/",
		"//evil.com":           "/",
		"https://evil.com":     "/",
		"/\\evil.com":          "/",
		"/redirect?to=http://": "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeRedirectPath(in), in)
	}
}

func newTestLimiter(t *testing.T, clock *time.Time) *LoginLimiter {
	t.Helper()
	l := NewLoginLimiter(config.Auth{
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  10 * time.Minute,
	})
	l.now = func() time.Time { return *clock }
	t.Cleanup(l.Stop)
	return l
}

func TestLoginLimiter_LocksAfterMaxFailures(t *testing.T) {
	clock := time.Now()
	l := newTestLimiter(t, &clock)

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "admin")
		assert.True(t, allowed)
		assert.False(t, l.RecordFailure("1.2.3.4", "admin"))
	}
	assert.True(t, l.RecordFailure("1.2.3.4", "admin"))

	allowed, retryAfter := l.Allow("1.2.3.4", "admin")
	assert.False(t, allowed)
	assert.Equal(t, 10*time.Minute, retryAfter)

	clock = clock.Add(11 * time.Minute)
	allowed, _ = l.Allow("1.2.3.4", "admin")
	assert.True(t, allowed)
}

func TestLoginLimiter_SuccessResets(t *testing.T) {
	clock := time.Now()
	l := newTestLimiter(t, &clock)

	l.RecordFailure("1.2.3.4", "admin")
	l.RecordFailure("1.2.3.4", "admin")
	l.RecordSuccess("1.2.3.4", "admin")

	assert.False(t, l.RecordFailure("1.2.3.4", "admin"))
	allowed, _ := l.Allow("1.2.3.4", "admin")
	assert.True(t, allowed)
}

func TestLoginLimiter_KeysAreIndependent(t *testing.T) {
	clock := time.Now()
	l := newTestLimiter(t, &clock)

	for i := 0; i < 3; i++ {
		l.RecordFailure("1.2.3.4", "admin")
	}

	allowed, _ := l.Allow("1.2.3.4", "timc")
	assert.True(t, allowed)
	allowed, _ = l.Allow("5.6.7.8", "admin")
	assert.True(t, allowed)
}

func TestLoginLimiter_WindowExpiry(t *testing.T) {
	clock := time.Now()
	l := newTestLimiter(t, &clock)

	l.RecordFailure("1.2.3.4", "admin")
	l.RecordFailure("1.2.3.4", "admin")
	clock = clock.Add(2 * time.Minute)

	assert.False(t, l.RecordFailure("1.2.3.4", "admin"), "old failures fall out of the window")

	l.sweep()
	clock = clock.Add(2 * time.Minute)
	l.sweep()
	l.mu.Lock()
	assert.Empty(t, l.failures)
	l.mu.Unlock()
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "same-origin", w.Header().Get("Referrer-Policy"))
	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Contains(t, csp, "script-src 'none'")
	assert.Contains(t, csp, "form-action 'self'")
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}
