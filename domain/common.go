package domain

import (
	"errors"
	"strings"
)

const (
	DateLayout = "2006-01-02"
)

var (
	MessageFailedBodyRequest = "failed to parse request body"

	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("resource already exists")
	ErrAuthFailure     = errors.New("invalid username or password")
	ErrStorage         = errors.New("storage failure")
	ErrExternalService = errors.New("external service failure")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenNotFound   = errors.New("failed to token not found")
)

type (
	FieldError struct {
		Field   string `json:"field,omitempty"`
		Message string `json:"msg"`
	}

	// FieldErrors carries every field-level problem found in a form. Kind is
	// ErrValidation or ErrConflict so callers can match with errors.Is.
	FieldErrors struct {
		Kind   error
		Errors []FieldError
	}
)

func NewValidationErrors(errs ...FieldError) *FieldErrors {
	return &FieldErrors{Kind: ErrValidation, Errors: errs}
}

func NewConflictErrors(errs ...FieldError) *FieldErrors {
	return &FieldErrors{Kind: ErrConflict, Errors: errs}
}

func (e *FieldErrors) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *FieldErrors) Empty() bool {
	return len(e.Errors) == 0
}

// OrNil returns nil when nothing was collected, so the result can be
// returned directly as an error.
func (e *FieldErrors) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *FieldErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return e.Kind.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *FieldErrors) Unwrap() error {
	return e.Kind
}
