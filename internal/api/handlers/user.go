package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mbruno/notekeep-website/internal/api/middleware"
	"github.com/mbruno/notekeep-website/internal/config"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/service"
)

// UserHandler serves the caller's own profile. The target id is always the
// session-resolved user, never something the client supplies.
type UserHandler struct {
	auth *service.AuthService
	cfg  *config.Config
}

func NewUserHandler(auth *service.AuthService, cfg *config.Config) *UserHandler {
	return &UserHandler{auth: auth, cfg: cfg}
}

type ProfileUpdateRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	DisplayName  *string `json:"displayName"`
	ProfilePhoto *string `json:"profilePhoto"`
	Username     *string `json:"username"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.cfg.IsProduction())
		return
	}

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("Invalid request body."), h.cfg.IsProduction())
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DisplayName:  req.DisplayName,
		ProfilePhoto: req.ProfilePhoto,
		Username:     req.Username,
	})
	if err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Data:    updated.PublicProfile(),
		Message: "User profile updated successfully.",
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.cfg.IsProduction())
		return
	}

	if err := h.auth.DeleteAccount(r.Context(), user.ID); err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return
	}

	// The account and all its sessions are gone; drop the cookie too.
	cookie := &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
	http.SetCookie(w, cookie)

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Message: "User profile deleted successfully.",
	})
}
