package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettingsRepo struct {
	settings *domain.GlobalSettings
}

func (r *staticSettingsRepo) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	return r.settings, nil
}

func (r *staticSettingsRepo) Save(ctx context.Context, settings *domain.GlobalSettings) error {
	r.settings = settings
	return nil
}

func newTestLimiter(windowMinutes, max int) (*RateLimiter, *time.Time) {
	cache := service.NewSettingsCache(&staticSettingsRepo{settings: &domain.GlobalSettings{
		Name:                   "default",
		RateLimitWindowMinutes: windowMinutes,
		RateLimitMaxRequests:   max,
	}}, time.Minute)

	limiter := NewRateLimiter(cache, time.Minute, 20)

	now := time.Now()
	limiter.now = func() time.Time { return now }
	cache.Clock = func() time.Time { return now }
	return limiter, &now
}

func limitedRequest(limiter *RateLimiter, remoteAddr string) *httptest.ResponseRecorder {
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_EnforcesWindowQuota(t *testing.T) {
	limiter, now := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		rec := limitedRequest(limiter, "10.0.0.1:5000")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should be admitted", i+1)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := limitedRequest(limiter, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))

	// A fresh window admits again.
	*now = now.Add(time.Minute + time.Second)
	rec = limitedRequest(limiter, "10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_CountsPerIP(t *testing.T) {
	limiter, _ := newTestLimiter(1, 1)

	rec := limitedRequest(limiter, "10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = limitedRequest(limiter, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client has its own window.
	rec = limitedRequest(limiter, "10.0.0.2:5000")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_NormalizesClientIP(t *testing.T) {
	limiter, _ := newTestLimiter(1, 1)

	// Same host behind different ports shares one window.
	rec := limitedRequest(limiter, "10.0.0.1:1111")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = limitedRequest(limiter, "10.0.0.1:2222")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_ForwardedFor(t *testing.T) {
	limiter, _ := newTestLimiter(1, 1)

	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
		req.RemoteAddr = "127.0.0.1:9999"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// The first hop identifies the client; appended proxy hops do not.
	assert.Equal(t, http.StatusOK, send("203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7, 10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("203.0.113.8").Code)
}

func TestRateLimiter_MissingIP(t *testing.T) {
	limiter, _ := newTestLimiter(1, 3)

	rec := limitedRequest(limiter, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing IP address")
}

func TestRateLimiter_FallbackWhenUnseeded(t *testing.T) {
	cache := service.NewSettingsCache(&staticSettingsRepo{}, time.Minute)
	limiter := NewRateLimiter(cache, time.Minute, 2)

	rec := limitedRequest(limiter, "10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	limitedRequest(limiter, "10.0.0.1:5000")
	rec = limitedRequest(limiter, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
