package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/gemini-proxy/internal/generation"
	"github.com/phrazzld/gemini-proxy/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "gemini-1.5-flash-latest"

func newTestHandler(t *testing.T, provider generation.Provider) *GenerationHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := generation.NewService(provider, testModel, logger)
	require.NoError(t, err)
	return NewGenerationHandler(svc, logger)
}

func postGenerate(h *GenerationHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Generate(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGenerate_Success(t *testing.T) {
	provider := mocks.NewMockProviderWithText("Hi there")
	h := newTestHandler(t, provider)

	w := postGenerate(h, `{"inputs":"Say hi"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"text":"Hi there","candidates":[{"content":{"parts":[{"text":"Hi there"}],"role":"model"}}]}`,
		w.Body.String())

	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, testModel, calls[0].Model)
	assert.Equal(t, "Say hi", calls[0].Prompt)
	assert.Equal(t, generation.Config{}, calls[0].Config)
}

func TestGenerate_ModelAndParameters(t *testing.T) {
	provider := mocks.NewMockProviderWithText("ok")
	h := newTestHandler(t, provider)

	w := postGenerate(h, `{"inputs":"x","model":"gemini-pro","parameters":{"temperature":0.2,"top_k":null,"max_new_tokens":64,"seed":7}}`)

	require.Equal(t, http.StatusOK, w.Code)
	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gemini-pro", calls[0].Model)
	cfg := calls[0].Config
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-9)
	assert.Nil(t, cfg.TopK)
	assert.Nil(t, cfg.TopP)
	require.NotNil(t, cfg.MaxOutputTokens)
	assert.Equal(t, 64, *cfg.MaxOutputTokens)
}

func TestGenerate_RandomModeUsesDefaultPrompt(t *testing.T) {
	provider := mocks.NewMockProviderWithText("Once upon a time")
	h := newTestHandler(t, provider)

	w := postGenerate(h, `{"mode":"random"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, generation.DefaultRandomPrompt, calls[0].Prompt)
}

func TestGenerate_ClientErrors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{"empty body", ``, MsgMissingInputs},
		{"empty object", `{}`, MsgMissingInputs},
		{"whitespace inputs", `{"mode":"prompt","inputs":"   "}`, MsgMissingInputs},
		{"malformed json", `{"inputs":`, MsgMissingInputs},
		{"wrongly typed body", `{"inputs":42}`, MsgMissingInputs},
		{"json array", `["Say hi"]`, MsgMissingInputs},
		{"invalid parameter", `{"inputs":"x","parameters":{"top_k":"many"}}`, "invalid parameter \"top_k\""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := mocks.NewMockProviderWithText("unused")
			h := newTestHandler(t, provider)

			w := postGenerate(h, tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody(t, w)["error"], tc.expectedError)
			assert.Empty(t, provider.Calls())
		})
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postGenerate(h, `{"inputs":"Say hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgNotConfigured, decodeBody(t, w)["error"])
}

func TestGenerate_UpstreamError(t *testing.T) {
	provider := mocks.NewMockProviderWithError(errors.New("API key not valid. Please pass a valid API key."))
	h := newTestHandler(t, provider)

	w := postGenerate(h, `{"inputs":"Say hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "API key not valid. Please pass a valid API key.", decodeBody(t, w)["error"])
	assert.Len(t, provider.Calls(), 1)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	raw := map[string]any{"promptFeedback": map[string]any{"blockReason": "SAFETY"}}
	provider := mocks.NewMockProviderWithEmptyResult(raw)
	h := newTestHandler(t, provider)

	w := postGenerate(h, `{"inputs":"Say hi"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, MsgEmptyResponse, body["error"])
	assert.Equal(t, raw, body["raw"])
}

func TestGenerate_BodyTooLarge(t *testing.T) {
	provider := mocks.NewMockProviderWithText("unused")
	h := newTestHandler(t, provider)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"inputs":"`+strings.Repeat("a", 64)+`"}`))
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 16)

	h.Generate(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, provider.Calls())
}

func TestPreflight(t *testing.T) {
	h := newTestHandler(t, mocks.NewMockProviderWithText("unused"))
	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	w := httptest.NewRecorder()

	h.Preflight(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestGenerate_WrongTypedFieldKeepsSiblings(t *testing.T) {
	provider := mocks.NewMockProviderWithText("ok")
	h := newTestHandler(t, provider)

	w := postGenerate(h, `{"mode":1,"inputs":"hi","model":["x"],"parameters":{"temperature":0.3}}`)

	require.Equal(t, http.StatusOK, w.Code)
	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "hi", calls[0].Prompt)
	assert.Equal(t, testModel, calls[0].Model)
	require.NotNil(t, calls[0].Config.Temperature)
	assert.InDelta(t, 0.3, *calls[0].Config.Temperature, 1e-9)
}

func TestDecodeGenerateRequest(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   GenerateRequest
		wantOK bool
	}{
		{name: "empty body", body: ``, wantOK: true},
		{name: "all fields", body: `{"mode":"random","inputs":"x","model":"m"}`,
			want: GenerateRequest{Mode: "random", Inputs: "x", Model: "m"}, wantOK: true},
		{name: "wrong typed field dropped", body: `{"mode":1,"inputs":"hi"}`,
			want: GenerateRequest{Inputs: "hi"}, wantOK: true},
		{name: "null field", body: `{"inputs":null}`, wantOK: true},
		{name: "json null", body: `null`, wantOK: true},
		{name: "malformed", body: `{"inputs":`, wantOK: false},
		{name: "array", body: `["hi"]`, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := decodeGenerateRequest([]byte(tc.body))

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
