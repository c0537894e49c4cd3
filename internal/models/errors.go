package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by the data layer when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrPermissionDenied is returned for writes to records of another account.
var ErrPermissionDenied = errors.New("missing or insufficient permissions")

// ValidationError is raised before any request is issued.
// Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// Auth error codes
const (
	AuthCodeMissingFields   = "missing-fields"
	AuthCodeInvalidInput    = "invalid-input"
	AuthCodeBadCredentials  = "invalid-credential"
	AuthCodeEmailInUse      = "email-already-in-use"
	AuthCodeNotSignedIn     = "not-signed-in"
	AuthCodeTooManyRequests = "too-many-requests"
	AuthCodeInternal        = "internal-error"
)

// AuthError is returned when the auth provider rejects a request
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError creates an AuthError.
func NewAuthError(code, msg string) *AuthError {
	return &AuthError{Code: code, Message: msg}
}

// NewNotSignedInError is returned by operations that need a current identity.
func NewNotSignedInError() *AuthError {
	return &AuthError{Code: AuthCodeNotSignedIn, Message: "You must be signed in"}
}

// StoreError wraps a failed document store request
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err for the named operation. A nil err stays nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuth reports whether err is an AuthError with the given code.
// An empty code matches any AuthError.
func IsAuth(err error, code string) bool {
	var ae *AuthError
	if !errors.As(err, &ae) {
		return false
	}
	return code == "" || ae.Code == code
}
