package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByName(t *testing.T) {
	err := domain.NewConflictError("email taken")

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	// Matching survives wrapping.
	wrapped := fmt.Errorf("during signup: %w", err)
	assert.ErrorIs(t, wrapped, domain.ErrConflict)
}

func TestAsAppError(t *testing.T) {
	t.Run("passes app errors through", func(t *testing.T) {
		original := domain.NewNotFoundError("missing")
		assert.Same(t, original, domain.AsAppError(original))
	})

	t.Run("unwraps to find an app error", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", domain.NewValidationError("bad input"))
		got := domain.AsAppError(wrapped)
		assert.Equal(t, 400, got.StatusCode)
	})

	t.Run("unknown errors become non-operational internal errors", func(t *testing.T) {
		got := domain.AsAppError(errors.New("pq: connection refused"))
		assert.Equal(t, 500, got.StatusCode)
		assert.False(t, got.IsOperational)
		// The raw cause never becomes the client-facing message.
		assert.Equal(t, "Internal Server Error.", got.Message)
	})
}
