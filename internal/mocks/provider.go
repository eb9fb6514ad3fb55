package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/gemini-proxy/internal/generation"
)

// ProviderCall records the arguments of one MockProvider.Generate call.
type ProviderCall struct {
	Model  string
	Prompt string
	Config generation.Config
}

// MockProvider implements generation.Provider for testing
type MockProvider struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, model, prompt string, cfg generation.Config) (*generation.Result, error)

	// Default response values
	Result *generation.Result
	Err    error

	// mu protects calls for concurrent test cases
	mu    sync.Mutex
	calls []ProviderCall
}

// Generate implements the generation.Provider interface
func (m *MockProvider) Generate(
	ctx context.Context,
	model, prompt string,
	cfg generation.Config,
) (*generation.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ProviderCall{Model: model, Prompt: prompt, Config: cfg})
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, model, prompt, cfg)
	}
	return m.Result, m.Err
}

// Calls returns a copy of the recorded calls.
func (m *MockProvider) Calls() []ProviderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ProviderCall(nil), m.calls...)
}

// NewMockProviderWithText creates a MockProvider that answers every call with text
func NewMockProviderWithText(text string) *MockProvider {
	return &MockProvider{
		Result: &generation.Result{Text: text, Raw: map[string]any{"text": text}},
	}
}

// NewMockProviderWithError creates a MockProvider that fails every call with err
func NewMockProviderWithError(err error) *MockProvider {
	return &MockProvider{Err: err}
}

// NewMockProviderWithEmptyResult creates a MockProvider whose calls succeed
// without text, as when safety filters block a completion
func NewMockProviderWithEmptyResult(raw any) *MockProvider {
	return &MockProvider{
		Result: &generation.Result{Raw: raw},
	}
}
