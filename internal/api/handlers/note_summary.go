package handlers

import (
	"net/http"

	"github.com/mbruno/notekeep-website/internal/api/middleware"
	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/service"
)

// NoteSummaryHandler serves the markdown summary of the session user's notes.
type NoteSummaryHandler struct {
	summary    *service.NoteSummaryService
	production bool
}

func NewNoteSummaryHandler(summary *service.NoteSummaryService, production bool) *NoteSummaryHandler {
	return &NoteSummaryHandler{summary: summary, production: production}
}

func (h *NoteSummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		writeError(w, domain.NewUnauthorizedError("Authentication required."), h.production)
		return
	}

	summary, err := h.summary.Summarize(r.Context(), user.ID)
	if err != nil {
		writeError(w, err, h.production)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		Success: true,
		Data:    summary,
		Message: "Notes summarized successfully.",
	})
}
