package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = NewDomainError("TICKET_NOT_FOUND", "ticket not found", http.StatusNotFound, nil)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	withDetails := errSentinel.WithDetails(map[string]any{"ticket_id": 7})
	wrapped := fmt.Errorf("lookup: %w", withDetails)

	assert.True(t, errors.Is(wrapped, errSentinel))
	assert.False(t, errors.Is(wrapped, NewDomainError("OTHER", "x", 400, nil)))
	assert.Nil(t, errSentinel.Details, "sentinel must not be mutated")
}

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain", NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"fiber not found", fiber.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"fiber method", fiber.ErrMethodNotAllowed, "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed},
		{"no rows", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"generic", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorHidesCause(t *testing.T) {
	de := ToDomainError(errors.New("pq: relation missing"))
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorContains(t, de, "relation missing")
}
