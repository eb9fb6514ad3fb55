package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrMissingAPIKey is returned when a provider is created without an API key.
	ErrMissingAPIKey = errors.New("gemini API key cannot be empty")
)
