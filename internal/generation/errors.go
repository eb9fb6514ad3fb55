package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrNotConfigured is returned when no provider API key is configured.
	ErrNotConfigured = errors.New("generation provider is not configured")

	// ErrMissingInputs is returned when a prompt-mode request carries no inputs.
	ErrMissingInputs = errors.New("missing inputs")

	// ErrInvalidParameter is returned when a recognized generation parameter
	// holds a value of the wrong type.
	ErrInvalidParameter = errors.New("invalid generation parameter")

	// ErrUpstream is returned when the provider call fails.
	ErrUpstream = errors.New("upstream generation failed")

	// ErrEmptyResponse is returned when the provider answers without usable
	// text, e.g. because safety filters blocked the completion.
	ErrEmptyResponse = errors.New("empty response")
)

// ParameterError reports a recognized parameter whose value cannot be used.
type ParameterError struct {
	Key string
	Err error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %v", e.Key, e.Err)
}

func (e *ParameterError) Unwrap() error { return e.Err }

func (e *ParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// UpstreamError wraps a failure reported by the provider. Its message is the
// provider's own error text.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// EmptyResponseError carries the raw provider payload of a call that
// succeeded but produced no text.
type EmptyResponseError struct {
	Raw any
}

func (e *EmptyResponseError) Error() string { return ErrEmptyResponse.Error() }

func (e *EmptyResponseError) Is(target error) bool { return target == ErrEmptyResponse }
