package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/gemini-proxy/internal/api/shared"
)

// Fixed health report identifiers.
const (
	ServiceName    = "Gemini Proxy API"
	LLMIntegration = "Google Generative AI"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	Service        string `json:"service"`
	LLMIntegration string `json:"llm_integration"`
	APIKeyStatus   string `json:"api_key_status"`
	Model          string `json:"model"`
}

// HealthHandler reports liveness and whether the provider key is configured.
// It never calls the provider.
type HealthHandler struct {
	configured bool
	model      string
	now        func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(configured bool, model string) *HealthHandler {
	return &HealthHandler{
		configured: configured,
		model:      model,
		now:        time.Now,
	}
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "not configured"
	if h.configured {
		status = "configured"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Timestamp:      h.now().UTC().Format(time.RFC3339),
		Service:        ServiceName,
		LLMIntegration: LLMIntegration,
		APIKeyStatus:   status,
		Model:          h.model,
	})
}
