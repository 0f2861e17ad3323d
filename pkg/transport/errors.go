package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/storage"
)

// HTTPStatusFromError maps an APIError onto the gateway's HTTP status.
// Vendor failures surface as 502, or 504 when the round trip timed out.
// Body size and content type problems are handled by the HTTP layer.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeConfiguration:
		return http.StatusServiceUnavailable
	case api.ErrorTypeTransport:
		switch err.Code {
		case api.CodeTimeout:
			return http.StatusGatewayTimeout
		case api.CodeCanceled:
			// nginx convention for a client that went away.
			return 499
		}
		return http.StatusBadGateway
	case api.ErrorTypeEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsAPIError converts any error into an APIError. storage.ErrNotFound
// becomes a not_found error, unknown errors a server error.
func AsAPIError(err error) *api.APIError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, storage.ErrNotFound) {
		return api.NewNotFoundError(err.Error())
	}
	return api.NewServerError(err.Error())
}

// WriteErrorResponse writes apiErr wrapped in an ErrorResponse.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes apiErr with the status derived from its type.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}

// WriteError converts err with AsAPIError and writes it.
func WriteError(w http.ResponseWriter, err error) {
	WriteAPIError(w, AsAPIError(err))
}
