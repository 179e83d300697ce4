package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// MessageResponse is returned by operations that have no entity to echo back
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// StatusFor maps an error onto an HTTP status and response body.
// NotFound is 404, Conflict is 400, Validation is 422; echo errors keep
// their own code and everything else is a 500.
func StatusFor(err error) (int, *ErrorResponse) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(appErr.Kind, ErrNotFound):
			return http.StatusNotFound, CreateErrorResponse("NOT_FOUND", appErr.Message, appErr.Details)
		case errors.Is(appErr.Kind, ErrConflict):
			return http.StatusBadRequest, CreateErrorResponse("CONFLICT", appErr.Message, appErr.Details)
		case errors.Is(appErr.Kind, ErrValidation):
			return http.StatusUnprocessableEntity, CreateErrorResponse("VALIDATION_ERROR", appErr.Message, appErr.Details)
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return httpErr.Code, CreateErrorResponse(codeForStatus(httpErr.Code), message, nil)
	}

	return http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "Internal server error", nil)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusBadRequest:
		return "CLIENT_ERROR"
	}
	if status >= http.StatusInternalServerError {
		return "SERVER_ERROR"
	}
	return "CLIENT_ERROR"
}
