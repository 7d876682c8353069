package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/services/account"
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
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeGameFull           = "GAME_FULL"
	CodeGameNameExists     = "GAME_NAME_EXISTS"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeNotInGame          = "NOT_IN_GAME"
	CodeNotCreator         = "NOT_CREATOR"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodeWrongGamePassword  = "WRONG_GAME_PASSWORD"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserDeleted        = "USER_DELETED"
	CodeUnknownCommand     = "UNKNOWN_COMMAND"
	CodeRecipientNotFound  = "RECIPIENT_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
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

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameFull):
		return &httpError{http.StatusConflict, APIError{CodeGameFull, "Game is full"}}
	case errors.Is(err, model.ErrGameNameExists):
		return &httpError{http.StatusConflict, APIError{CodeGameNameExists, "A game with this name already exists"}}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, model.ErrNotInGame):
		return &httpError{http.StatusForbidden, APIError{CodeNotInGame, "User is not in this game"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodeNotCreator, "Only the game creator can perform this action"}}
	case errors.Is(err, model.ErrPasswordRequired):
		return &httpError{http.StatusUnauthorized, APIError{CodePasswordRequired, "Game password required"}}
	case errors.Is(err, model.ErrWrongGamePassword):
		return &httpError{http.StatusUnauthorized, APIError{CodeWrongGamePassword, "Incorrect game password"}}
	case errors.Is(err, model.ErrUserDeleted):
		return &httpError{http.StatusGone, APIError{CodeUserDeleted, "User account is deleted"}}
	case errors.Is(err, model.ErrUnknownCommand):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownCommand, "Unknown command"}}
	case errors.Is(err, model.ErrRecipientNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRecipientNotFound, "Recipient not found"}}
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, err.Error()}}

	// Map account errors
	case errors.Is(err, account.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
