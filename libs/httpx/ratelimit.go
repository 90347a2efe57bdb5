package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a per-client fixed-window limiter kept in process memory. Use it when a single
// replica serves the API; RedisRateLimiter shares the budget across replicas.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*fixedWindow
	sweepAt time.Time
}

type fixedWindow struct {
	hits    int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: map[string]*fixedWindow{},
	}
}

func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits, reset := rl.hit(clientKey(r))
			if !limitHeaders(w, rl.limit, int64(hits), reset) {
				Error(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(key string) bool {
	hits, _ := rl.hit(key)
	return hits <= rl.limit
}

// hit counts one request for key and returns the hits in the current window and the time left in it.
func (rl *RateLimiter) hit(key string) (int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.After(rl.sweepAt) {
		for k, fw := range rl.clients {
			if now.After(fw.resetAt) {
				delete(rl.clients, k)
			}
		}
		rl.sweepAt = now.Add(rl.window)
	}

	fw := rl.clients[key]
	if fw == nil || now.After(fw.resetAt) {
		fw = &fixedWindow{resetAt: now.Add(rl.window)}
		rl.clients[key] = fw
	}
	if fw.hits <= rl.limit {
		fw.hits++
	}
	return fw.hits, fw.resetAt.Sub(now)
}

// limitHeaders writes the X-RateLimit headers and reports whether the request is within budget.
// Over budget it also sets Retry-After.
func limitHeaders(w http.ResponseWriter, limit int, hits int64, reset time.Duration) bool {
	remaining := int64(limit) - hits
	if remaining < 0 {
		remaining = 0
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	if hits <= int64(limit) {
		return true
	}
	h.Set("Retry-After", strconv.Itoa(retryAfterSeconds(reset)))
	return false
}

// retryAfterSeconds rounds ttl up to whole seconds, never below one.
func retryAfterSeconds(ttl time.Duration) int {
	secs := int((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

func clientKey(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		first, _, _ := strings.Cut(ip, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
