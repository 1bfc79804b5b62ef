package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainErrorIsMatchesByCode(t *testing.T) {
	wrapped := WrapError(ErrWeakPassword, fmt.Errorf("password is too common"))

	if !errors.Is(wrapped, ErrWeakPassword) {
		t.Error("wrapped error does not match its sentinel")
	}
	if errors.Is(wrapped, ErrPasswordMismatch) {
		t.Error("wrapped error matches an unrelated sentinel")
	}
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := WrapError(ErrInternal, cause)

	if !errors.Is(wrapped, cause) {
		t.Error("cause lost during wrapping")
	}
	if wrapped.Code != ErrInternal.Code {
		t.Errorf("code = %q, want %q", wrapped.Code, ErrInternal.Code)
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrPasswordMismatch, http.StatusBadRequest},
		{ErrWeakPassword, http.StatusBadRequest},
		{ErrMissingToken, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrAccountInactive, http.StatusUnauthorized},
		{ErrIncorrectPassword, http.StatusUnauthorized},
		{ErrNotLeader, http.StatusForbidden},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrTeamNotFound, http.StatusNotFound},
		{ErrEmailExists, http.StatusConflict},
		{ErrUsernameExists, http.StatusConflict},
		{ErrTeamNameExists, http.StatusConflict},
		{ErrAlreadyMember, http.StatusConflict},
		{ErrNotMember, http.StatusConflict},
		{ErrLeaderRemoval, http.StatusConflict},
		{ErrServiceUnavailable, http.StatusServiceUnavailable},
		{ErrInternal, http.StatusInternalServerError},
		{fmt.Errorf("plain error"), http.StatusInternalServerError},
		{WrapError(ErrEmailExists, fmt.Errorf("duplicated key")), http.StatusConflict},
	}

	for _, tt := range tests {
		if got := ToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestToFieldPayload(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKey  string
		wantText string
	}{
		{
			name:     "field scoped error",
			err:      ErrEmailExists,
			wantKey:  "email",
			wantText: ErrEmailExists.Message,
		},
		{
			name:     "unscoped domain error",
			err:      ErrNotLeader,
			wantKey:  "detail",
			wantText: ErrNotLeader.Message,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			wantKey:  "detail",
			wantText: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := ToFieldPayload(tt.err)
			if got := payload[tt.wantKey]; got != tt.wantText {
				t.Errorf("payload[%q] = %q, want %q", tt.wantKey, got, tt.wantText)
			}
		})
	}
}

func TestGetErrorMessageHidesWrappedCause(t *testing.T) {
	wrapped := WrapError(ErrInternal, fmt.Errorf("pq: connection reset"))
	if got := GetErrorMessage(wrapped); got != ErrInternal.Message {
		t.Errorf("GetErrorMessage() = %q, want %q", got, ErrInternal.Message)
	}
}
