package middleware

import (
	"net/http"
	"sync"
	"time"
)

type caller struct {
	count    int
	lastSeen time.Time
}

// RateLimiter throttles the public auth endpoints per client IP so
// register/login cannot be brute-forced. Counts reset after one idle window;
// a background sweep drops IPs that went quiet.
type RateLimiter struct {
	mu      sync.Mutex
	callers map[string]*caller
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*caller),
		limit:   limit,
		window:  window,
	}

	go func() {
		for {
			time.Sleep(window)
			rl.mu.Lock()
			for ip, c := range rl.callers {
				if time.Since(c.lastSeen) > window {
					delete(rl.callers, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

// Middleware rejects a request with 429 once its IP exceeds the limit inside
// the current window.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr

		rl.mu.Lock()
		c, exists := rl.callers[ip]
		if !exists {
			rl.callers[ip] = &caller{count: 1, lastSeen: time.Now()}
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		if time.Since(c.lastSeen) > rl.window {
			c.count = 1
			c.lastSeen = time.Now()
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		c.count++
		c.lastSeen = time.Now()
		count := c.count
		rl.mu.Unlock()

		if count > rl.limit {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
