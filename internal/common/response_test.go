package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", NotFound("Product with ID %d not found", 1), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", Conflict("Prospect with email %s already exists", "a@b.c"), http.StatusBadRequest, "CONFLICT"},
		{"validation", Validation("Validation failed", map[string]string{"name": "is required"}), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrapped", fmt.Errorf("update: %w", NotFound("gone")), http.StatusNotFound, "NOT_FOUND"},
		{"echo", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"unknown", errors.New("driver: bad connection"), http.StatusInternalServerError, "SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestStatusFor_KeepsMessageAndDetails(t *testing.T) {
	_, body := StatusFor(Validation("Validation failed", map[string]string{"email": "must be a valid email address"}))

	assert.Equal(t, "Validation failed", body.Error.Message)
	assert.Equal(t, "must be a valid email address", body.Error.Details["email"])
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("Prospect with ID %d not found", 7)

	assert.EqualError(t, err, "Prospect with ID 7 not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.False(t, IsValidation(err))
}
