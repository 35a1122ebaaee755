package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter hands out per-host rate.Limiter buckets. Every Limit call gets
// its own set, so two limited route groups never share a budget. Idle
// buckets are dropped by a background sweep until Stop is called.
type RateLimiter struct {
	now func() time.Time

	mu     sync.Mutex
	scopes []*limitScope

	stop     chan struct{}
	stopOnce sync.Once
}

type limitScope struct {
	burst int
	rate  rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewRateLimiter starts a limiter whose idle buckets are swept every
// cleanupInterval.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{now: time.Now, stop: make(chan struct{})}
	go rl.sweepLoop(cleanupInterval)
	return rl
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Limit returns middleware allowing maxPerMinute requests per client host,
// with bursts up to the same number. Rejected requests get 429 and a
// Retry-After with the whole seconds until the next token.
func (rl *RateLimiter) Limit(maxPerMinute int) Middleware {
	s := &limitScope{
		burst:   maxPerMinute,
		rate:    rate.Limit(float64(maxPerMinute) / 60),
		buckets: make(map[string]*rate.Limiter),
	}
	rl.mu.Lock()
	rl.scopes = append(rl.scopes, s)
	rl.mu.Unlock()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wait, ok := s.take(clientIP(r), rl.now())
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// take spends one token of key's bucket, or reports how long until one is
// available.
func (s *limitScope) take(key string, now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	lim, ok := s.buckets[key]
	if !ok {
		lim = rate.NewLimiter(s.rate, s.burst)
		s.buckets[key] = lim
	}
	s.mu.Unlock()

	if lim.AllowN(now, 1) {
		return 0, true
	}
	missing := 1 - lim.TokensAt(now)
	return time.Duration(missing / float64(s.rate) * float64(time.Second)), false
}

// sweep drops buckets that have refilled completely; a fresh bucket is
// identical to them.
func (s *limitScope) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, lim := range s.buckets {
		if lim.TokensAt(now) >= float64(s.burst) {
			delete(s.buckets, key)
		}
	}
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			scopes := rl.scopes
			rl.mu.Unlock()
			now := rl.now()
			for _, s := range scopes {
				s.sweep(now)
			}
		}
	}
}

// clientIP strips the port so every connection from one host shares a bucket.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + strconv.Quote(msg) + "}\n"))
}
