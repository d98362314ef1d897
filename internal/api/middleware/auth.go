package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/service"
)

type contextKey string

const userKey contextKey = "authUser"

// Session resolves the session cookie to a user and stores it in the request
// context. It never rejects: unauthenticated requests pass through with no
// user so public routes share the same chain.
func Session(sessions *service.SessionService, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.Validate(r.Context(), cookie.Value)
			if err != nil {
				// The request proceeds unauthenticated; the log line is what
				// distinguishes a store failure from a bad cookie.
				log.Printf("ERROR [middleware.Session] failed to validate session: %v", err)
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the session-resolved user, if any.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// RequireAuth rejects requests with no session-resolved user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success":       false,
				"authenticated": false,
				"message":       "Authentication required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects authenticated users whose role is not admin. The
// decision is a pure function of the session-resolved user.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success":       false,
				"authenticated": false,
				"message":       "Authentication required",
			})
			return
		}
		if !user.IsAdmin() {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"success":       false,
				"authenticated": true,
				"message":       "Admin access required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
