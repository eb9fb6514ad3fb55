package generation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/gemini-proxy/internal/redact"
)

// Upstream call outcomes reported to an Observer.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

// Observer receives one notification per upstream call.
type Observer interface {
	ObserveUpstream(model, outcome string, duration time.Duration)
}

// Service validates generation requests and forwards them to a Provider.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	provider     Provider
	defaultModel string
	logger       *slog.Logger
	observer     Observer
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithObserver reports upstream call outcomes to o.
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		s.observer = o
	}
}

// NewService creates a Service. provider may be nil when no provider
// credentials are configured; every Generate call then fails with
// ErrNotConfigured.
func NewService(provider Provider, defaultModel string, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if defaultModel == "" {
		return nil, errors.New("default model cannot be empty")
	}

	s := &Service{
		provider:     provider,
		defaultModel: defaultModel,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Configured reports whether a provider is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// DefaultModel returns the model used when a request names none.
func (s *Service) DefaultModel() string {
	return s.defaultModel
}

// Generate runs a single generation request.
//
// Validation happens before the provider is contacted: a missing provider
// yields ErrNotConfigured, a prompt-mode request without inputs yields
// ErrMissingInputs and a malformed recognized parameter yields a
// *ParameterError. Provider failures are returned as *UpstreamError and
// completions without text as *EmptyResponseError. Nothing is retried.
func (s *Service) Generate(ctx context.Context, req Request) (*Response, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = ModePrompt
	}
	inputs := strings.TrimSpace(req.Inputs)

	if inputs == "" {
		if mode != ModeRandom {
			return nil, ErrMissingInputs
		}
		inputs = DefaultRandomPrompt
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.defaultModel
	}

	params, err := ParseParameters(req.Parameters)
	if err != nil {
		return nil, err
	}
	cfg := MapParameters(params)

	log := s.logger.With("model", model, "mode", mode)
	log.DebugContext(ctx, "calling generation provider", "prompt_length", len(inputs))

	start := time.Now()
	result, err := s.provider.Generate(ctx, model, inputs, cfg)
	elapsed := time.Since(start)

	if err != nil {
		s.observe(model, OutcomeError, elapsed)
		log.ErrorContext(ctx, "generation provider call failed",
			"error", redact.Error(err),
			"duration_ms", elapsed.Milliseconds())
		return nil, &UpstreamError{Err: err}
	}

	if result == nil || result.Text == "" {
		s.observe(model, OutcomeEmpty, elapsed)
		var raw any
		if result != nil {
			raw = result.Raw
		}
		log.WarnContext(ctx, "generation provider returned no text",
			"duration_ms", elapsed.Milliseconds())
		return nil, &EmptyResponseError{Raw: raw}
	}

	s.observe(model, OutcomeSuccess, elapsed)
	log.InfoContext(ctx, "generation completed",
		"duration_ms", elapsed.Milliseconds(),
		"text_length", len(result.Text))

	return NewResponse(result.Text), nil
}

func (s *Service) observe(model, outcome string, d time.Duration) {
	if s.observer != nil {
		s.observer.ObserveUpstream(model, outcome, d)
	}
}
