package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T) (*RateLimiter, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(time.Hour)
	rl.now = clock.now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/dictionaries/import", nil)
	req.RemoteAddr = remote
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl, _ := newTestLimiter(t)
	h := rl.Limit(5)(okHandler())

	for i := range 5 {
		assert.Equal(t, http.StatusOK, hit(h, "1.2.3.4:1234").Code, "request %d", i)
	}

	rec := hit(h, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	// 5 per minute: the next token is 12s away.
	assert.Equal(t, "12", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestRateLimiter_RetryAfterShrinksWithTime(t *testing.T) {
	rl, clock := newTestLimiter(t)
	h := rl.Limit(1)(okHandler())

	require.Equal(t, http.StatusOK, hit(h, "1.2.3.4:1").Code)

	clock.advance(45 * time.Second)
	rec := hit(h, "1.2.3.4:1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "15", rec.Header().Get("Retry-After"))

	clock.advance(16 * time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "1.2.3.4:1").Code)
}

func TestRateLimiter_Refill(t *testing.T) {
	rl, clock := newTestLimiter(t)
	h := rl.Limit(60)(okHandler())

	for range 60 {
		hit(h, "3.3.3.3:1234")
	}
	require.Equal(t, http.StatusTooManyRequests, hit(h, "3.3.3.3:1234").Code)

	clock.advance(time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "3.3.3.3:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "3.3.3.3:1234").Code)
}

func TestRateLimiter_Keys(t *testing.T) {
	rl, _ := newTestLimiter(t)
	h := rl.Limit(1)(okHandler())

	require.Equal(t, http.StatusOK, hit(h, "4.4.4.4:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "4.4.4.4:2000").Code, "same host, other port")
	assert.Equal(t, http.StatusOK, hit(h, "5.5.5.5:1000").Code, "other host")
}

func TestRateLimiter_LimitsDoNotShareBuckets(t *testing.T) {
	rl, _ := newTestLimiter(t)
	imports := rl.Limit(1)(okHandler())
	resets := rl.Limit(3)(okHandler())

	require.Equal(t, http.StatusOK, hit(imports, "6.6.6.6:1").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(imports, "6.6.6.6:1").Code)

	for i := range 3 {
		assert.Equal(t, http.StatusOK, hit(resets, "6.6.6.6:1").Code, "request %d", i)
	}
}

func TestLimitScope_Sweep(t *testing.T) {
	rl, clock := newTestLimiter(t)
	h := rl.Limit(6)(okHandler())

	hit(h, "7.7.7.7:1")
	hit(h, "8.8.8.8:1")
	clock.advance(5 * time.Second)
	hit(h, "8.8.8.8:1")

	s := rl.scopes[0]
	// 7.7.7.7 has refilled; 8.8.8.8 spent a token 5s ago and has not.
	clock.advance(6 * time.Second)
	s.sweep(clock.now())

	assert.NotContains(t, s.buckets, "7.7.7.7")
	assert.Contains(t, s.buckets, "8.8.8.8")
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{remote: "1.2.3.4:80", want: "1.2.3.4"},
		{remote: "[::1]:8080", want: "::1"},
		{remote: "pipe", want: "pipe"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, clientIP(req))
	}
}
