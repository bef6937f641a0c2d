package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/services/auth"
	"github.com/mcoot/ofelia/internal/services/wizard"
)

// APIError represents an API error response
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRejectedID         = "REJECTED_ID"
	CodeMissingID          = "MISSING_ID"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeProfileExists      = "PROFILE_EXISTS"
	CodeNotOwner           = "NOT_OWNER"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidPhoto       = "INVALID_PHOTO"
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

// Status returns the HTTP status WriteError would use for err
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

	// Field validation failures carry every failing field. A username taken
	// at the account gate is a conflict rather than a bad request.
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		if errors.Is(err, model.ErrDuplicateUsername) {
			return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists", verr.FieldMessages()}}
		}
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, verr.Error(), verr.FieldMessages()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRejectedID):
		return &httpError{http.StatusForbidden, APIError{Code: CodeRejectedID, Message: "Bracelet ID is not authorized"}}
	case errors.Is(err, model.ErrMissingContextID):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeMissingID, Message: "Bracelet ID is required"}}
	case errors.Is(err, model.ErrOrphanProfile), errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeProfileNotFound, Message: "Bracelet has no profile yet"}}
	case errors.Is(err, model.ErrProfileExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeProfileExists, Message: "Bracelet already has a profile"}}
	case errors.Is(err, model.ErrNotOwner):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotOwner, Message: "Only the bracelet owner can perform this action"}}
	case errors.Is(err, model.ErrDuplicateUsername):
		return &httpError{http.StatusConflict, APIError{Code: CodeUsernameExists, Message: "Username already exists"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, model.ErrInvalidPhoto):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidPhoto, Message: "Photo must be an image data URI"}}

	// Map auth and wizard errors
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, wizard.ErrDraftNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeInvalidRequest, Message: "Registration draft not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
