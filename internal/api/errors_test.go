package api

import (
	"errors"
	"io/fs"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 200, Code: "42", Message: "bad"}
	if err.Error() != "API error 42: bad" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !IsAPIError(err) {
		t.Error("IsAPIError should return true")
	}
}

func TestAuthenticationError_Error(t *testing.T) {
	tests := []struct {
		err      *AuthenticationError
		expected string
	}{
		{&AuthenticationError{Code: "401", Message: "invalid credentials"}, "authentication failed (code 401): invalid credentials"},
		{&AuthenticationError{Message: "expired"}, "authentication failed: expired"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, tt.err.Error())
		}
		if !IsAuthenticationError(tt.err) {
			t.Error("IsAuthenticationError should return true")
		}
	}
}

func TestMalformedResponseError_Error(t *testing.T) {
	err := &MalformedResponseError{StatusCode: 200, Field: "data"}
	expected := `malformed response (status 200): missing "data"`
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	err = &MalformedResponseError{StatusCode: 502}
	expected = "malformed response (status 502): body is not a JSON object"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TransportError{Method: "GET", URL: "https://union.example.com/api/users/1", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("should unwrap to inner error")
	}
	if err.Error() != "GET https://union.example.com/api/users/1: connection refused" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestExportErrors_Unwrap(t *testing.T) {
	ioErr := &ExportIOError{Path: "/exports/a.json", Err: fs.ErrNotExist}
	if !errors.Is(ioErr, fs.ErrNotExist) {
		t.Error("ExportIOError should unwrap to the filesystem error")
	}
	if !IsExportError(ioErr) {
		t.Error("IsExportError should match ExportIOError")
	}

	decErr := &ExportDecodeError{Path: "/exports/a.json", Err: errors.New("bad json")}
	if !IsExportError(decErr) {
		t.Error("IsExportError should match ExportDecodeError")
	}
}

func TestErrorPredicates_NoCrossMatch(t *testing.T) {
	errs := []error{
		&AuthenticationError{},
		&APIError{},
		&TransportError{Err: errors.New("x")},
		&MalformedResponseError{},
		&ExportIOError{Err: errors.New("x")},
	}
	predicates := []func(error) bool{
		IsAuthenticationError,
		IsAPIError,
		IsTransportError,
		IsMalformedResponse,
		IsExportError,
	}

	for i, err := range errs {
		for j, is := range predicates {
			if got := is(err); got != (i == j) {
				t.Errorf("predicate %d on error %d (%T) = %v", j, i, err, got)
			}
		}
	}
}

func TestErrorPredicates_Nil(t *testing.T) {
	if IsAPIError(nil) || IsAuthenticationError(nil) || IsTransportError(nil) || IsMalformedResponse(nil) || IsExportError(nil) {
		t.Error("predicates should return false for nil")
	}
}
