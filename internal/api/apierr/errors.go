package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/wordrush/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeInvalidTeams      = "INVALID_TEAMS"
	CodeInvalidCommand    = "INVALID_COMMAND"
	CodeOutcomeOutOfRange = "OUTCOME_OUT_OF_RANGE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidHostKey    = "INVALID_HOST_KEY"
	CodeMatchNotFound     = "MATCH_NOT_FOUND"
	CodeTurnNotFound      = "TURN_NOT_FOUND"
	CodeMatchClosed       = "MATCH_CLOSED"
	CodeNoWords           = "NO_WORDS"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors. Validation and protocol errors carry useful detail, so
	// their message is the wrapped error text.
	switch {
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrTurnNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTurnNotFound, "Turn not found"}}
	case errors.Is(err, model.ErrMatchClosed):
		return &httpError{http.StatusGone, APIError{CodeMatchClosed, "Match is closed"}}
	case errors.Is(err, model.ErrInvalidHostKey):
		return &httpError{http.StatusForbidden, APIError{CodeInvalidHostKey, "Invalid host key"}}
	case errors.Is(err, model.ErrInvalidCommand):
		return &httpError{http.StatusConflict, APIError{CodeInvalidCommand, err.Error()}}
	case errors.Is(err, model.ErrOutcomeOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeOutcomeOutOfRange, err.Error()}}
	case errors.Is(err, model.ErrInvalidConfig):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfig, err.Error()}}
	case errors.Is(err, model.ErrInvalidTeams), errors.Is(err, model.ErrUnknownTeam):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeams, err.Error()}}
	case errors.Is(err, model.ErrNoWords), errors.Is(err, model.ErrWordsNotLoaded):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeNoWords, "No word pool is loaded"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Host key required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
