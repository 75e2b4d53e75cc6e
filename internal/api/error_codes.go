package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a machine-readable classification of client errors, used
// when errors are reported as JSON.
type ErrorCode string

const (
	// ErrAuthentication means the credentials were rejected.
	ErrAuthentication ErrorCode = "authentication_failed"
	// ErrAPI means the server reported a business error.
	ErrAPI ErrorCode = "api_error"
	// ErrTransport means the HTTP exchange itself failed.
	ErrTransport ErrorCode = "transport_error"
	// ErrMalformedResponse means the response lacked an expected field.
	ErrMalformedResponse ErrorCode = "malformed_response"
	// ErrExport means an export file could not be read or decoded.
	ErrExport ErrorCode = "export_failed"
	// ErrValidation means local input validation failed.
	ErrValidation ErrorCode = "validation_failed"
	// ErrUnknown is anything else.
	ErrUnknown ErrorCode = "unknown"
)

// Suggestion returns a short hint for resolving errors with this code.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrAuthentication:
		return "Check the email, password, app ID and app secret, then run 'unioncloud auth login'"
	case ErrTransport:
		return "Check the host name and network connectivity; use --ca-bundle for a private CA"
	case ErrMalformedResponse:
		return "The server answered in an unexpected format; rerun with --debug to see the exchange"
	case ErrExport:
		return "Export files are read from the API host's storage; check that it is mounted here"
	case ErrValidation:
		return "Check the input values"
	default:
		return ""
	}
}

// StructuredError is the JSON form of a client error.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError reports a value outside a fixed set of choices.
func NewValidationError(field, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Suggestion:    fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

// StructuredErrorFromError classifies err by the client error types.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		out := NewStructuredError(ErrAuthentication, authErr.Message)
		if authErr.Code != "" {
			out.Context = map[string]any{"error_code": authErr.Code}
		}
		return out
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		out := NewStructuredError(ErrAPI, apiErr.Message)
		out.Context = map[string]any{
			"error_code":  apiErr.Code,
			"status_code": apiErr.StatusCode,
		}
		return out
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		out := NewStructuredError(ErrTransport, transportErr.Error())
		out.Context = map[string]any{"method": transportErr.Method, "url": transportErr.URL}
		return out
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		out := NewStructuredError(ErrMalformedResponse, malformed.Error())
		out.Context = map[string]any{"status_code": malformed.StatusCode}
		if malformed.Field != "" {
			out.Context["field"] = malformed.Field
		}
		return out
	}

	if IsExportError(err) {
		return NewStructuredError(ErrExport, err.Error())
	}

	return &StructuredError{Code: ErrUnknown, Message: err.Error()}
}
