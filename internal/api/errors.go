package api

import (
	"errors"
	"fmt"
)

// AuthenticationError is returned when the authenticate endpoint answers
// with anything other than a SUCCESS result.
type AuthenticationError struct {
	Code    string
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("authentication failed: %s", e.Message)
	}
	return fmt.Sprintf("authentication failed (code %s): %s", e.Code, e.Message)
}

// APIError is a business error reported through an "errors" envelope.
// Code has the server's "ERR" prefix removed.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %s: %s", e.Code, e.Message)
}

// TransportError wraps a failure of the HTTP exchange itself
// (DNS, connection, TLS). The underlying error is kept as-is.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError means a transport-successful response lacked a
// field the operation depends on, or was not JSON at all.
type MalformedResponseError struct {
	StatusCode int
	Field      string
}

func (e *MalformedResponseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed response (status %d): body is not a JSON object", e.StatusCode)
	}
	return fmt.Sprintf("malformed response (status %d): missing %q", e.StatusCode, e.Field)
}

// ExportIOError is returned when an export file cannot be read.
type ExportIOError struct {
	Path string
	Err  error
}

func (e *ExportIOError) Error() string {
	return fmt.Sprintf("read export %s: %v", e.Path, e.Err)
}

func (e *ExportIOError) Unwrap() error {
	return e.Err
}

// ExportDecodeError is returned when an export file is not valid JSON.
type ExportDecodeError struct {
	Path string
	Err  error
}

func (e *ExportDecodeError) Error() string {
	return fmt.Sprintf("decode export %s: %v", e.Path, e.Err)
}

func (e *ExportDecodeError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError checks if the error is an authentication failure.
func IsAuthenticationError(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

// IsAPIError checks if the error is an API business error.
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsTransportError checks if the error came from the HTTP exchange.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsMalformedResponse checks if the error is a response contract violation.
func IsMalformedResponse(err error) bool {
	var e *MalformedResponseError
	return errors.As(err, &e)
}

// IsExportError checks if the error came from resolving an export file.
func IsExportError(err error) bool {
	var ioErr *ExportIOError
	if errors.As(err, &ioErr) {
		return true
	}
	var decErr *ExportDecodeError
	return errors.As(err, &decErr)
}
