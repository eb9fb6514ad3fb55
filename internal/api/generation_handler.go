package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/gemini-proxy/internal/api/shared"
	"github.com/phrazzld/gemini-proxy/internal/generation"
	"github.com/phrazzld/gemini-proxy/internal/platform/logger"
)

// GenerateRequest is the body accepted by POST /api/generate.
type GenerateRequest struct {
	Mode       string          `json:"mode"`
	Inputs     string          `json:"inputs"`
	Model      string          `json:"model"`
	Parameters json.RawMessage `json:"parameters"`
}

// GenerationHandler serves the generation endpoint.
type GenerationHandler struct {
	service *generation.Service
	logger  *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(service *generation.Service, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		service: service,
		logger:  logger.With("component", "generation_handler"),
	}
}

// Preflight handles OPTIONS /api/generate requests.
func (h *GenerationHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Generate handles POST /api/generate requests.
//
// The provider check runs before the body is read. The body itself is parsed
// leniently: anything that is not a JSON object of the expected shape counts
// as an empty request.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !h.service.Configured() {
		h.respondWithServiceError(w, r, generation.ErrNotConfigured)
		return
	}

	body, err := shared.ReadBody(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Unable to read request body", err)
		return
	}

	req, ok := decodeGenerateRequest(body)
	if !ok {
		logger.FromContextOrDefault(r.Context(), h.logger).DebugContext(r.Context(),
			"ignoring malformed generation request body", "body_length", len(body))
	}

	resp, err := h.service.Generate(r.Context(), generation.Request{
		Mode:       req.Mode,
		Inputs:     req.Inputs,
		Model:      req.Model,
		Parameters: req.Parameters,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func (h *GenerationHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var opts []shared.ResponseOption
	if raw := rawPayload(err); raw != nil {
		opts = append(opts, shared.WithRaw(raw))
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, opts...)
}

// decodeGenerateRequest reads each field of a JSON object body on its own, so
// a wrongly typed field is dropped without discarding its siblings. A body
// that is not a JSON object decodes to the zero request; ok is false when
// the body was non-empty but not a usable object.
func decodeGenerateRequest(body []byte) (req GenerateRequest, ok bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return req, true
	}

	var fields map[string]json.RawMessage
	if !shared.DecodeJSONLenient(body, &fields) {
		return req, false
	}

	req.Mode = stringField(fields, "mode")
	req.Inputs = stringField(fields, "inputs")
	req.Model = stringField(fields, "model")
	req.Parameters = fields["parameters"]
	return req, true
}

// stringField returns fields[key] when it holds a JSON string, or "".
func stringField(fields map[string]json.RawMessage, key string) string {
	var v string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}
