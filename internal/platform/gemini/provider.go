package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/gemini-proxy/internal/config"
	"github.com/phrazzld/gemini-proxy/internal/generation"
	"google.golang.org/genai"
)

// Provider implements generation.Provider on top of the Gemini API.
type Provider struct {
	logger *slog.Logger
	client *genai.Client
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini-backed provider.
//
// The upstream call is bounded by cfg.RequestTimeout through the HTTP client;
// cfg.BaseURL, when set, replaces the public Gemini endpoint.
func NewProvider(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Provider{
		logger: logger,
		client: client,
	}, nil
}

// Generate sends prompt to model and returns the concatenated response text.
// A response blocked by safety filters or without candidates yields an empty
// Text and a nil error; Raw always holds the SDK response when one arrived.
func (p *Provider) Generate(
	ctx context.Context,
	model, prompt string,
	cfg generation.Config,
) (*generation.Result, error) {
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), contentConfig(cfg))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &generation.Result{}, nil
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		p.logger.WarnContext(ctx, "Gemini response blocked by safety filters", "model", model)
	}

	return &generation.Result{
		Text: resp.Text(),
		Raw:  resp,
	}, nil
}

// contentConfig converts the proxy configuration to the SDK's request
// configuration. Unset fields stay unset so the model defaults apply.
func contentConfig(cfg generation.Config) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{}
	if cfg.Temperature != nil {
		out.Temperature = genai.Ptr(float32(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		out.TopP = genai.Ptr(float32(*cfg.TopP))
	}
	if cfg.TopK != nil {
		out.TopK = genai.Ptr(float32(*cfg.TopK))
	}
	if cfg.MaxOutputTokens != nil {
		out.MaxOutputTokens = int32(*cfg.MaxOutputTokens)
	}
	return out
}
