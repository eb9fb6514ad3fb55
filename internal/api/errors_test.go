package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/gemini-proxy/internal/api/middleware"
	"github.com/phrazzld/gemini-proxy/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "unauthorized",
			err:            middleware.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not configured",
			err:            generation.ErrNotConfigured,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "missing inputs",
			err:            generation.ErrMissingInputs,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrapped missing inputs",
			err:            fmt.Errorf("validate: %w", generation.ErrMissingInputs),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid parameter",
			err:            &generation.ParameterError{Key: "top_k", Err: errors.New("expected int")},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "upstream failure",
			err:            &generation.UpstreamError{Err: errors.New("API key not valid")},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "empty response",
			err:            &generation.EmptyResponseError{},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "unknown error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	paramErr := &generation.ParameterError{Key: "temperature", Err: errors.New("expected number, got string")}

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, MsgUnexpected},
		{"unauthorized", middleware.ErrUnauthorized, middleware.MsgUnauthorized},
		{"not configured", generation.ErrNotConfigured, MsgNotConfigured},
		{"missing inputs", generation.ErrMissingInputs, MsgMissingInputs},
		{"invalid parameter", paramErr, paramErr.Error()},
		{"empty response", &generation.EmptyResponseError{Raw: "x"}, MsgEmptyResponse},
		{
			"upstream failure surfaces provider message",
			&generation.UpstreamError{Err: errors.New("API key not valid. Please pass a valid API key.")},
			"API key not valid. Please pass a valid API key.",
		},
		{"unknown error stays generic", errors.New("pq: relation does not exist"), MsgUnexpected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestRawPayload(t *testing.T) {
	raw := map[string]any{"promptFeedback": map[string]any{"blockReason": "SAFETY"}}

	assert.Equal(t, raw, rawPayload(&generation.EmptyResponseError{Raw: raw}))
	assert.Nil(t, rawPayload(generation.ErrMissingInputs))
}
