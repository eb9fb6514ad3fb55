package testutils

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/gemini-proxy/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorResponse checks that a response has the expected status code and
// an error body whose message contains expectedErrorMsgPart. It returns the
// decoded body for further assertions.
func AssertErrorResponse(
	t *testing.T,
	status int,
	body []byte,
	expectedStatus int,
	expectedErrorMsgPart string,
) shared.ErrorResponse {
	t.Helper()

	assert.Equal(t, expectedStatus, status,
		"Expected status code %d but got %d", expectedStatus, status)

	var errResp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp), "Failed to decode error response: %s", body)
	assert.Contains(t, errResp.Error, expectedErrorMsgPart,
		"Error message should contain expected text")
	return errResp
}

// SetDefaultLogger installs a TestSlogHandler-backed logger as the slog
// default for the duration of the test. Tests using it must not run in
// parallel.
func SetDefaultLogger(t *testing.T) *TestSlogHandler {
	t.Helper()
	logger, handler := NewTestLogger()
	previous := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(previous) })
	return handler
}
