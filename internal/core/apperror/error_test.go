package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFactoriesCarryHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", NewValidation("bad input"), CodeValidation, http.StatusBadRequest},
		{"not found", NewNotFound("secretariat", 42), CodeNotFound, http.StatusNotFound},
		{"duplicate code", NewDuplicateCode("secretariat", 7, "SEC-1"), CodeDuplicateCode, http.StatusConflict},
		{"invalid reference", NewInvalidReference("official", 9), CodeInvalidReference, http.StatusUnprocessableEntity},
		{"conflict", NewConflict("already live"), CodeConflict, http.StatusConflict},
		{"unauthorized", NewUnauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("wrong mayoralty"), CodeForbidden, http.StatusForbidden},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.status)
			}
		})
	}
}

func TestUnwrapAndAs(t *testing.T) {
	cause := errors.New("root cause")
	err := NewInternal(cause)

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is must reach the cause")
	}

	wrapped := fmt.Errorf("context: %w", err)
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AsAppError must find AppError through wrapping")
	}
	if appErr.Code != CodeInternal {
		t.Errorf("Code = %s, want %s", appErr.Code, CodeInternal)
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("while deleting: %w", NewNotFound("project", 3))
	if !IsNotFound(err) {
		t.Fatal("IsNotFound must see through wrapping")
	}
	if IsConflict(err) {
		t.Fatal("IsConflict must not match a not-found error")
	}
}

func TestWithDetail(t *testing.T) {
	err := NewValidation("bad field").
		WithDetail("field", "code").
		WithDetail("value", "X")

	if err.Details["field"] != "code" || err.Details["value"] != "X" {
		t.Fatalf("Details = %v", err.Details)
	}
}

func TestGetHTTPStatusFallback(t *testing.T) {
	if got := GetHTTPStatus(errors.New("anything")); got != http.StatusInternalServerError {
		t.Errorf("GetHTTPStatus = %d, want 500", got)
	}
	if got := GetHTTPStatus(NewNotFound("x", 1)); got != http.StatusNotFound {
		t.Errorf("GetHTTPStatus = %d, want 404", got)
	}
}
