package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/rhuss/vendorchat/pkg/api"
)

// maxErrorBody caps how much of a non-2xx body is kept on the error.
const maxErrorBody = 4096

// MapNetworkError converts a failed round trip into a TransportError with
// code timeout, canceled or network.
func MapNetworkError(ctx context.Context, err error) *api.APIError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return api.NewTransportError(api.CodeTimeout, 0, "", "vendor request timed out", err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return api.NewTransportError(api.CodeCanceled, 0, "", "vendor request canceled", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return api.NewTransportError(api.CodeTimeout, 0, "", "vendor request timed out", err)
	}
	return api.NewTransportError(api.CodeNetwork, 0, "",
		fmt.Sprintf("vendor connection error: %s", err.Error()), err)
}

// MapHTTPError converts a non-2xx reply into a TransportError carrying the
// status code and the (capped) raw body.
func MapHTTPError(status int, body []byte) *api.APIError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	message := ExtractErrorMessage(body)
	if message == "" {
		message = fmt.Sprintf("vendor returned HTTP %d %s", status, http.StatusText(status))
	} else {
		message = fmt.Sprintf("vendor returned HTTP %d: %s", status, message)
	}
	return api.NewTransportError(api.CodeHTTPStatus, status, string(body), message, nil)
}

// ExtractErrorMessage returns error.message from an OpenAI-style error
// body, or "" when the body has another shape.
func ExtractErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var errResp ChatErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	return errResp.Error.Message
}
