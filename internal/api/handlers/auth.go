package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/api/middleware"
	"github.com/mbruno/notekeep-website/internal/config"
	"github.com/mbruno/notekeep-website/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
	oauth    *service.OAuthService
	cfg      *config.Config
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, oauth *service.OAuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, oauth: oauth, cfg: cfg}
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := h.auth.Signup(r.Context(), service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:       true,
		Authenticated: boolPtr(true),
		Message:       "Signup and login successful.",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, apiResponse{
				Success:       false,
				Authenticated: boolPtr(false),
				Message:       "Invalid email or password.",
			})
			return
		}
		writeError(w, err, h.cfg.IsProduction())
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{
		Success:       true,
		Authenticated: boolPtr(true),
		Message:       "Login successful.",
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cfg.SessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			log.Printf("ERROR [handlers.Auth] failed to destroy session: %v", err)
		}
	}
	h.clearSessionCookie(w)

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "Logout successful.",
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{
			Success:       false,
			Authenticated: boolPtr(false),
			Message:       "No user authenticated.",
		})
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success:       true,
		Authenticated: boolPtr(true),
		Data:          user.PublicProfile(),
		Message:       "User retrieved successfully.",
	})
}

// OAuthRedirect sends the client to the provider consent screen.
func (h *AuthHandler) OAuthRedirect(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	url, err := h.oauth.AuthCodeURL(provider)
	if err != nil {
		log.Printf("ERROR [handlers.Auth] oauth redirect for %q: %v", provider, err)
		http.Redirect(w, r, h.cfg.OAuthFailureURL, http.StatusFound)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// OAuthCallback completes the provider flow: any failure redirects to the
// configured failure URL, success opens a session and redirects onward.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	user, err := h.oauth.HandleCallback(r.Context(), provider, state, code)
	if err != nil {
		log.Printf("ERROR [handlers.Auth] oauth callback for %q: %v", provider, err)
		http.Redirect(w, r, h.cfg.OAuthFailureURL, http.StatusFound)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		log.Printf("ERROR [handlers.Auth] failed to create session: %v", err)
		http.Redirect(w, r, h.cfg.OAuthFailureURL, http.StatusFound)
		return
	}

	http.SetCookie(w, h.sessionCookie(token))
	http.Redirect(w, r, h.cfg.OAuthSuccessURL, http.StatusFound)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return false
	}
	http.SetCookie(w, h.sessionCookie(token))
	return true
}

// sessionCookie builds the HTTP-only session cookie. Public-facing
// deployments serve the SPA from another origin, so the cookie switches to
// Secure + SameSite=None there; elsewhere Lax.
func (h *AuthHandler) sessionCookie(token string) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.cfg.SecureCookies() {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTimeout.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies(),
		SameSite: sameSite,
	}
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	cookie := h.sessionCookie("")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}
