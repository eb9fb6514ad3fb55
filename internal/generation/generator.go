package generation

import (
	"context"
	"encoding/json"
)

// Request modes.
const (
	ModePrompt = "prompt"
	ModeRandom = "random"
)

// DefaultRandomPrompt is sent upstream for random-mode requests without inputs.
const DefaultRandomPrompt = "Write a short, whimsical story suitable for kids."

// Provider defines the boundary between the proxy and an external LLM
// service. Implementations make exactly one blocking call per invocation.
type Provider interface {
	// Generate sends prompt to model with the given sampling configuration.
	// A nil error with an empty Result.Text means the call succeeded but the
	// provider produced no usable text.
	Generate(ctx context.Context, model, prompt string, cfg Config) (*Result, error)
}

// Request is a client's generation request as received by the proxy.
type Request struct {
	Mode   string
	Inputs string
	Model  string
	// Parameters is the raw client parameter bag; see ParseParameters.
	Parameters json.RawMessage
}

// Config is the provider-side generation configuration. Nil fields were not
// supplied by the client and are not forwarded.
type Config struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"top_p,omitempty"`
	TopK            *int     `json:"top_k,omitempty"`
	MaxOutputTokens *int     `json:"max_output_tokens,omitempty"`
}

// Result is the outcome of a provider call.
type Result struct {
	Text string
	// Raw is the provider's response payload, kept for diagnostics.
	Raw any
}

// Response is the public response contract. The candidates wrapper mirrors
// the Gemini REST response so existing Gemini clients can consume it as is.
type Response struct {
	Text       string      `json:"text"`
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a single completion in Response.
type Candidate struct {
	Content Content `json:"content"`
}

// Content is the body of a Candidate.
type Content struct {
	Parts []Part `json:"parts"`
	Role  string `json:"role"`
}

// Part is a text fragment of Content.
type Part struct {
	Text string `json:"text"`
}

// NewResponse wraps text in both the flat and the nested response shapes.
func NewResponse(text string) *Response {
	return &Response{
		Text: text,
		Candidates: []Candidate{
			{
				Content: Content{
					Parts: []Part{{Text: text}},
					Role:  "model",
				},
			},
		},
	}
}
