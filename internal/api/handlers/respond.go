package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/mbruno/notekeep-website/internal/domain"
)

// apiResponse is the uniform response envelope.
type apiResponse struct {
	Success       bool       `json:"success"`
	Authenticated *bool      `json:"authenticated,omitempty"`
	Message       string     `json:"message,omitempty"`
	Data          any        `json:"data,omitempty"`
	Error         *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Name          string `json:"name"`
	StatusCode    int    `json:"statusCode"`
	IsOperational bool   `json:"isOperational"`
	Message       string `json:"message"`
	Stack         string `json:"stack,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

// NotFound is the catch-all for unmatched routes; unknown paths get the same
// envelope as any other NotFoundError.
func NotFound(production bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, domain.NewNotFoundError("The API endpoint you requested does not exist."), production)
	}
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR [handlers] failed to encode response: %v", err)
	}
}

// writeError funnels any error into the uniform envelope. Non-operational
// errors are logged with their cause; the stack is exposed only outside
// production.
func writeError(w http.ResponseWriter, err error, production bool) {
	appErr := domain.AsAppError(err)

	if !appErr.IsOperational {
		log.Printf("ERROR [handlers] unexpected error: %v", appErr)
	}

	body := &errorBody{
		Name:          appErr.Name,
		StatusCode:    appErr.StatusCode,
		IsOperational: appErr.IsOperational,
		Message:       appErr.Message,
	}
	if !production {
		body.Stack = string(debug.Stack())
	}

	writeJSON(w, appErr.StatusCode, apiResponse{
		Success: false,
		Message: appErr.Message,
		Error:   body,
	})
}
