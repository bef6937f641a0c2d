package model

import "errors"

// Common errors used across the application
var (
	// Resolution errors
	ErrRejectedID       = errors.New("bracelet id is not authorized")
	ErrMissingContextID = errors.New("no bracelet id supplied")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrOrphanProfile   = errors.New("bracelet has no profile yet")
	ErrProfileExists   = errors.New("bracelet already has a profile")
	ErrNotOwner        = errors.New("session does not own this profile")

	// Credential errors
	ErrCredentialNotFound = errors.New("credential not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors
	ErrMissingField = errors.New("required field is empty")
	ErrInvalidPhoto = errors.New("photo is not a supported image")
)

// FieldError reports a validation failure on a single named form field
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// Error implements error
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap exposes the underlying sentinel (ErrMissingField, ErrDuplicateUsername, ...)
func (e *FieldError) Unwrap() error {
	return e.Err
}

// MissingField builds a FieldError for an empty required field
func MissingField(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Err: ErrMissingField}
}

// ValidationError collects every FieldError raised by one validation pass
type ValidationError struct {
	Fields []*FieldError
}

// Error implements error, reporting the first failing field
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Error()
}

// Unwrap lets errors.Is match any of the collected field errors
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}

// FieldMessages maps field names to their messages for form re-rendering
func (e *ValidationError) FieldMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}
