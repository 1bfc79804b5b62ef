package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Field   string // request field the error is scoped to, if any
	Err     error  // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinel
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewFieldError creates a domain error scoped to a single request field
func NewFieldError(code, field, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Field:   domainErr.Field,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Validation errors (caller-fixable, field-scoped)
	ErrPasswordMismatch = NewFieldError("PASSWORD_MISMATCH", "password_confirm", "passwords do not match")
	ErrWeakPassword     = NewFieldError("WEAK_PASSWORD", "password", "password does not meet the strength policy")
	ErrEmailExists      = NewFieldError("EMAIL_EXISTS", "email", "a user with this email already exists")
	ErrUsernameExists   = NewFieldError("USERNAME_EXISTS", "username", "a user with this username already exists")
	ErrTeamNameExists   = NewFieldError("TEAM_NAME_EXISTS", "name", "a team with this name already exists")
	ErrEmailMismatch    = NewFieldError("EMAIL_MISMATCH", "email", "the provided email does not match your current email")

	// Authentication errors
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "email or password is incorrect")
	ErrAccountInactive    = NewDomainError("ACCOUNT_INACTIVE", "this account is inactive")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrMissingToken       = NewFieldError("MISSING_TOKEN", "refresh", "refresh token is required")
	ErrIncorrectPassword  = NewFieldError("INCORRECT_PASSWORD", "old_password", "old password is incorrect")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "unauthorized")

	// Authorization errors
	ErrNotLeader = NewDomainError("NOT_LEADER", "you are not the leader of this team")

	// State conflict errors
	ErrAlreadyMember = NewDomainError("ALREADY_MEMBER", "user is already a member of this team")
	ErrNotMember     = NewDomainError("NOT_MEMBER", "user is not a member of this team")
	ErrLeaderRemoval = NewDomainError("LEADER_REMOVAL", "the team leader cannot be removed from the team")

	// Lookup errors
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrTeamNotFound = NewDomainError("TEAM_NOT_FOUND", "team not found")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "PASSWORD_MISMATCH", "WEAK_PASSWORD", "EMAIL_MISMATCH", "MISSING_TOKEN":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "ACCOUNT_INACTIVE",
		"INVALID_TOKEN", "INCORRECT_PASSWORD":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "NOT_LEADER":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "TEAM_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS", "USERNAME_EXISTS", "TEAM_NAME_EXISTS",
		"ALREADY_MEMBER", "NOT_MEMBER", "LEADER_REMOVAL":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}

// ToFieldPayload renders a domain error as a field-scoped payload.
// Errors without a field fall back to a "detail" entry.
func ToFieldPayload(err error) map[string]string {
	domainErr := GetDomainError(err)
	if domainErr == nil {
		return map[string]string{"detail": err.Error()}
	}
	if domainErr.Field == "" {
		return map[string]string{"detail": domainErr.Message}
	}
	return map[string]string{domainErr.Field: domainErr.Message}
}
