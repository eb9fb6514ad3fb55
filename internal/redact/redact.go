// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Upstream provider errors can echo request URLs or
// headers, so anything resembling a credential is replaced with a placeholder.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder     = "[REDACTED]"
	RedactedKeyPlaceholder   = "[REDACTED_KEY]"
	RedactedTokenPlaceholder = "[REDACTED_TOKEN]"
	RedactedJWTPlaceholder   = "[REDACTED_JWT]"
	RedactedEmailPlaceholder = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules may rewrite text later rules
// would otherwise match.
var rules = []rule{
	// Google API keys
	{regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), RedactedKeyPlaceholder},
	// JWT token pattern - three base64url-encoded segments
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	// Bearer credentials
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]+`), "${1}" + RedactedTokenPlaceholder},
	// Key query parameters, e.g. ...:generateContent?key=...
	{regexp.MustCompile(`(?i)([?&](?:key|api_key)=)[^&\s"'\[]+`), "${1}" + RedactedKeyPlaceholder},
	// Credentials and tokens
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|passwd)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},
	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
