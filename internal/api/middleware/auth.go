package middleware

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/gemini-proxy/internal/api/shared"
	"github.com/phrazzld/gemini-proxy/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthorized is returned by AuthGate.Check when a request does not carry
// the internal API key.
var ErrUnauthorized = errors.New("invalid or missing internal API key")

// Client-facing text of the 401 response.
const (
	MsgUnauthorized  = "Invalid or missing internal API key"
	HintUnauthorized = "Provide Authorization: Bearer <INTERNAL_API_KEY> or x-api-key, or api_key in query/body"
)

// HealthPath is always reachable without credentials.
const HealthPath = "/health"

const bearerPrefix = "Bearer "

// AuthGate protects routes with a single shared internal API key.
//
// The key may be configured in plain text or as a bcrypt hash; when a hash is
// set it takes precedence. With neither configured the gate lets everything
// through.
type AuthGate struct {
	key    []byte
	hash   []byte
	logger *slog.Logger
}

// NewAuthGate creates a new AuthGate from the auth configuration.
func NewAuthGate(cfg config.AuthConfig, logger *slog.Logger) *AuthGate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &AuthGate{logger: logger.With("component", "auth_gate")}
	if cfg.InternalAPIKey != "" {
		g.key = []byte(cfg.InternalAPIKey)
	}
	if cfg.InternalAPIKeyHash != "" {
		g.hash = []byte(cfg.InternalAPIKeyHash)
	}
	return g
}

// Enabled reports whether a secret is configured.
func (g *AuthGate) Enabled() bool {
	return len(g.key) > 0 || len(g.hash) > 0
}

// Check returns nil when r may proceed and ErrUnauthorized otherwise.
func (g *AuthGate) Check(r *http.Request) error {
	if !g.Enabled() || r.Method == http.MethodOptions || r.URL.Path == HealthPath {
		return nil
	}

	candidate := g.candidate(r)
	if candidate == "" || !g.matches(candidate) {
		return ErrUnauthorized
	}
	return nil
}

// Authenticate rejects requests that fail Check with a 401 response.
func (g *AuthGate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Check(r); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgUnauthorized, err,
				shared.WithHint(HintUnauthorized),
				shared.WithElevatedLogLevel())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// candidate returns the first credential found, looking at the bearer token,
// the x-api-key header, the api_key query parameter and finally the api_key
// field of a JSON body.
func (g *AuthGate) candidate(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		if token := h[len(bearerPrefix):]; token != "" {
			return token
		}
	}
	if key := r.Header.Get("x-api-key"); key != "" {
		return key
	}
	if key := r.URL.Query().Get("api_key"); key != "" {
		return key
	}
	return g.bodyKey(r)
}

// bodyKey reads api_key from a JSON body. The body is restored for the next
// handler; unreadable or non-JSON bodies yield no credential.
func (g *AuthGate) bodyKey(r *http.Request) string {
	body, err := shared.ReadBody(r)
	if err != nil {
		g.logger.DebugContext(r.Context(), "unable to read body for credential lookup",
			"error", err.Error())
		return ""
	}
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		APIKey any `json:"api_key"`
	}
	if !shared.DecodeJSONLenient(body, &payload) {
		return ""
	}
	key, _ := payload.APIKey.(string)
	return key
}

func (g *AuthGate) matches(candidate string) bool {
	if len(g.hash) > 0 {
		return bcrypt.CompareHashAndPassword(g.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(g.key, []byte(candidate)) == 1
}
