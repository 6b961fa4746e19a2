package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// Error codes surfaced in the response envelope. Authentication failures map
// to 401, authorization and status failures to 403, structural validation to
// 400, store faults to 500.
const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodePrincipalGone     = "PRINCIPAL_GONE"
	CodeAccountInactive   = "ACCOUNT_INACTIVE"
	CodeAccountBlocked    = "ACCOUNT_BLOCKED"
	CodeForbidden         = "FORBIDDEN"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"

	CodeWeakPassword      = "WEAK_PASSWORD"
	CodeBadDateOfBirth    = "BAD_DATE_OF_BIRTH"
	CodeIncompleteIdentity = "INCOMPLETE_IDENTITY"
	CodeBadIdentityNumber = "BAD_IDENTITY_NUMBER"
	CodeBadRegistrationDate = "BAD_REGISTRATION_DATE"
	CodeNotAnImage        = "NOT_AN_IMAGE"
	CodeUnknownStatus     = "UNKNOWN_STATUS"
	CodeDuplicateAccount  = "DUPLICATE_ACCOUNT"

	CodeStoreTimeout     = "STORE_TIMEOUT"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(code, message string) error {
	return NewDomainError(code, message, http.StatusBadRequest, nil)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthorized(code, message string) error {
	return NewDomainError(code, message, http.StatusUnauthorized, nil)
}

func NewForbidden(code, message string) error {
	return NewDomainError(code, message, http.StatusForbidden, nil)
}

func NewConflict(message string) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, nil)
}

// NewInvalidCredentials is deliberately generic so login responses never
// reveal whether the identifier or the password was wrong.
func NewInvalidCredentials() error {
	return NewUnauthorized(CodeInvalidCredentials, "incorrect username/email or password")
}

// NewStoreTimeout marks a transient store fault; callers may retry once.
func NewStoreTimeout(err error) error {
	return &DomainError{
		Code:       CodeStoreTimeout,
		Message:    "store operation timed out",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"retryable": true},
		Err:        err,
	}
}

func NewStoreUnavailable(err error) error {
	return &DomainError{
		Code:       CodeStoreUnavailable,
		Message:    "store unavailable",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf extracts the taxonomy code, or empty string for unclassified errors.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       http.StatusText(fiberErr.Code),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		if de, ok := NewStoreTimeout(err).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
