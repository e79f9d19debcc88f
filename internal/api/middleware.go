package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// requestIDFrom returns the request ID attached by the middleware
func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// withRequestID tags every request with a UUID, echoed in the
// X-Request-ID header and every response body
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimiter enforces a per-client request budget over a sliding window
type rateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	lastSeen map[string]time.Time
}

// newRateLimiter allows requests per window for each client address
func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		clients:  make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    requests,
	}
}

func (rl *rateLimiter) limiterFor(addr string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Opportunistic cleanup of idle clients
	if len(rl.clients) > 1024 {
		cutoff := time.Now().Add(-time.Hour)
		for key, seen := range rl.lastSeen {
			if seen.Before(cutoff) {
				delete(rl.clients, key)
				delete(rl.lastSeen, key)
			}
		}
	}

	lim, ok := rl.clients[addr]
	if !ok {
		lim = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[addr] = lim
	}
	rl.lastSeen[addr] = time.Now()
	return lim
}

// middleware rejects over-budget clients with 429
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !rl.limiterFor(host).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(ErrorResponse{
				Error:     "rate limit exceeded, try again later",
				RequestID: requestIDFrom(r.Context()),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
