package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/mbruno/notekeep-website/internal/config"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/repository"
	"github.com/mbruno/notekeep-website/internal/service"
	"gorm.io/datatypes"
)

// AdminHandler exposes the non-scoped administrative surface. Every route is
// mounted behind RequireAdmin.
type AdminHandler struct {
	auth         *service.AuthService
	settingsRepo repository.SettingsRepository
	cache        *service.SettingsCache
	cfg          *config.Config
}

func NewAdminHandler(auth *service.AuthService, settingsRepo repository.SettingsRepository, cache *service.SettingsCache, cfg *config.Config) *AdminHandler {
	return &AdminHandler{auth: auth, settingsRepo: settingsRepo, cache: cache, cfg: cfg}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.GetAllUsers(r.Context())
	if err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return
	}

	profiles := make([]domain.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.PublicProfile())
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: profiles})
}

func (h *AdminHandler) GetGlobalSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.cache.Get(r.Context(), true)
	if err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return
	}
	if settings == nil {
		writeError(w, domain.NewNotFoundError("Global settings have not been seeded."), h.cfg.IsProduction())
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: settings})
}

type GlobalSettingsUpdateRequest struct {
	FeatureFlags           map[string]any `json:"featureFlags"`
	RateLimitWindowMinutes *int           `json:"rateLimitWindowMinutes"`
	RateLimitMaxRequests   *int           `json:"rateLimitMaxRequests"`
}

// UpdateGlobalSettings writes the settings singleton and invalidates the
// process-local cache so the next read observes the new value immediately.
// Other instances converge within the cache TTL.
func (h *AdminHandler) UpdateGlobalSettings(w http.ResponseWriter, r *http.Request) {
	var req GlobalSettingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("Invalid request body."), h.cfg.IsProduction())
		return
	}
	if req.RateLimitWindowMinutes != nil && *req.RateLimitWindowMinutes <= 0 {
		writeError(w, domain.NewValidationError("rateLimitWindowMinutes must be positive."), h.cfg.IsProduction())
		return
	}
	if req.RateLimitMaxRequests != nil && *req.RateLimitMaxRequests <= 0 {
		writeError(w, domain.NewValidationError("rateLimitMaxRequests must be positive."), h.cfg.IsProduction())
		return
	}

	settings, err := h.settingsRepo.Get(r.Context())
	if err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return
	}
	if settings == nil {
		settings = &domain.GlobalSettings{
			ID:                     uuid.New(),
			Name:                   "default",
			RateLimitWindowMinutes: 15,
			RateLimitMaxRequests:   100,
		}
	}

	if req.FeatureFlags != nil {
		settings.FeatureFlags = datatypes.JSONMap(req.FeatureFlags)
	}
	if req.RateLimitWindowMinutes != nil {
		settings.RateLimitWindowMinutes = *req.RateLimitWindowMinutes
	}
	if req.RateLimitMaxRequests != nil {
		settings.RateLimitMaxRequests = *req.RateLimitMaxRequests
	}

	if err := h.settingsRepo.Save(r.Context(), settings); err != nil {
		writeError(w, err, h.cfg.IsProduction())
		return
	}

	h.cache.Clear()
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: settings, Message: "Global settings updated."})
}
