package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/gemini-proxy/internal/api/middleware"
	"github.com/phrazzld/gemini-proxy/internal/generation"
)

// Client-facing messages for well-known failures.
const (
	MsgNotConfigured = "GOOGLE_API_KEY is not configured on the server"
	MsgMissingInputs = "Missing 'inputs' parameter"
	MsgEmptyResponse = "Empty response"
	MsgUnexpected    = "An unexpected error occurred"
)

// MapErrorToStatusCode maps generation and auth errors to HTTP status codes.
// Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, middleware.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, generation.ErrMissingInputs),
		errors.Is(err, generation.ErrInvalidParameter):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrEmptyResponse):
		return http.StatusBadGateway

	case errors.Is(err, generation.ErrNotConfigured),
		errors.Is(err, generation.ErrUpstream):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message sent to the client for err.
// Upstream failures surface the provider's own message, which is what the
// browser client displays; everything unknown gets a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var paramErr *generation.ParameterError
	var upstreamErr *generation.UpstreamError

	switch {
	case errors.Is(err, middleware.ErrUnauthorized):
		return middleware.MsgUnauthorized

	case errors.Is(err, generation.ErrNotConfigured):
		return MsgNotConfigured

	case errors.Is(err, generation.ErrMissingInputs):
		return MsgMissingInputs

	case errors.As(err, &paramErr):
		return paramErr.Error()

	case errors.Is(err, generation.ErrEmptyResponse):
		return MsgEmptyResponse

	case errors.As(err, &upstreamErr):
		return upstreamErr.Error()

	default:
		return MsgUnexpected
	}
}

// rawPayload extracts the diagnostic payload attached to an empty response.
func rawPayload(err error) any {
	var emptyErr *generation.EmptyResponseError
	if errors.As(err, &emptyErr) {
		return emptyErr.Raw
	}
	return nil
}
