package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mbruno/notekeep-website/internal/service"
)

type windowState struct {
	count       int
	windowStart time.Time
}

// RateLimiter admits or rejects requests by normalized client IP using a
// fixed window counter. Window size and quota come from the settings cache;
// the fallbacks apply while settings are unreadable or unseeded.
type RateLimiter struct {
	settings *service.SettingsCache

	fallbackWindow time.Duration
	fallbackMax    int
	now            func() time.Time

	mu      sync.Mutex
	windows map[string]*windowState
}

func NewRateLimiter(settings *service.SettingsCache, fallbackWindow time.Duration, fallbackMax int) *RateLimiter {
	if fallbackWindow <= 0 {
		fallbackWindow = time.Minute
	}
	if fallbackMax <= 0 {
		fallbackMax = 20
	}
	return &RateLimiter{
		settings:       settings,
		fallbackWindow: fallbackWindow,
		fallbackMax:    fallbackMax,
		now:            time.Now,
		windows:        make(map[string]*windowState),
	}
}

// Handler enforces the limit. Requests with no resolvable client IP are
// rejected with 400 before any counting so the limiter key is always
// well-formed; 429 responses carry Retry-After plus the standard
// X-RateLimit headers, which admitted responses also receive.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if ip == "" {
			log.Printf("ERROR [middleware.RateLimit] request without resolvable client IP: %s", r.URL.Path)
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Missing IP address. Request rejected.",
			})
			return
		}

		window, max := l.limits(r.Context())
		remaining, reset, allowed := l.admit(ip, window, max)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(reset).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"success": false,
				"message": "Too many requests, please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// limits reads the current window configuration from the settings cache.
func (l *RateLimiter) limits(ctx context.Context) (time.Duration, int) {
	settings, err := l.settings.Get(ctx, false)
	if err != nil {
		log.Printf("ERROR [middleware.RateLimit] failed to read settings: %v", err)
		return l.fallbackWindow, l.fallbackMax
	}
	if settings == nil || settings.RateLimitWindowMinutes <= 0 || settings.RateLimitMaxRequests <= 0 {
		return l.fallbackWindow, l.fallbackMax
	}
	return time.Duration(settings.RateLimitWindowMinutes) * time.Minute, settings.RateLimitMaxRequests
}

func (l *RateLimiter) admit(ip string, window time.Duration, max int) (remaining int, reset time.Time, allowed bool) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.windows[ip]
	if !ok || now.Sub(state.windowStart) >= window {
		state = &windowState{windowStart: now}
		l.windows[ip] = state
	}

	reset = state.windowStart.Add(window)
	if state.count >= max {
		return 0, reset, false
	}

	state.count++
	remaining = max - state.count
	l.pruneLocked(now, window)
	return remaining, reset, true
}

// pruneLocked drops windows that have lapsed so the map does not grow with
// every IP ever seen. Called with the lock held.
func (l *RateLimiter) pruneLocked(now time.Time, window time.Duration) {
	if len(l.windows) < 4096 {
		return
	}
	for ip, state := range l.windows {
		if now.Sub(state.windowStart) >= window {
			delete(l.windows, ip)
		}
	}
}

// clientIP resolves the originating address, preferring the first
// X-Forwarded-For hop, and strips any port suffix so the limiter key is a
// bare address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return stripPort(first)
		}
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR [middleware] failed to encode response: %v", err)
	}
}
