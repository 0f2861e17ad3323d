package api

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeConfiguration marks a missing or invalid adapter setting,
	// typically an absent credential. Raised at construction time.
	ErrorTypeConfiguration ErrorType = "configuration_error"

	// ErrorTypeTransport covers network failures, timeouts, cancellation
	// and non-2xx vendor replies.
	ErrorTypeTransport ErrorType = "transport_error"

	// ErrorTypeEmptyResponse means the vendor answered with zero choices.
	ErrorTypeEmptyResponse ErrorType = "empty_response"

	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeServerError    ErrorType = "server_error"
)

// Transport error codes.
const (
	CodeTimeout     = "timeout"
	CodeCanceled    = "canceled"
	CodeHTTPStatus  = "http_status"
	CodeNetwork     = "network"
	CodeMissingCred = "missing_credential"
)

// APIError represents a structured error with type, code, param, and message.
//
// Transport errors caused by a vendor reply also carry the HTTP status code
// and the raw response body. Those fields are not serialized so vendor
// payloads never leak to gateway clients.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`

	StatusCode int    `json:"-"`
	Body       string `json:"-"`

	cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// IsType reports whether err (or anything it wraps) is an APIError of type t.
func IsType(err error, t ErrorType) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == t
	}
	return false
}

// NewConfigurationError creates an APIError for a setting that could not be
// resolved. Param names the missing field or environment variable.
func NewConfigurationError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeConfiguration,
		Code:    CodeMissingCred,
		Param:   param,
		Message: message,
	}
}

// NewTransportError creates an APIError for a failed vendor round trip.
// statusCode is 0 when no HTTP response was received.
func NewTransportError(code string, statusCode int, body, message string, cause error) *APIError {
	return &APIError{
		Type:       ErrorTypeTransport,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Body:       body,
		cause:      cause,
	}
}

// NewEmptyResponseError creates an APIError for a reply without choices.
func NewEmptyResponseError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeEmptyResponse,
		Message: message,
	}
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}
