// Package gemini provides an implementation of the generation.Provider interface
// that uses Google's Gemini API through the google.golang.org/genai SDK.
//
// This package is an infrastructure adapter: it translates the proxy's
// generation configuration into the SDK's request types, performs one
// GenerateContent call per request and hands back the response text together
// with the raw response payload. It does not retry; transport and API errors
// are returned to the caller unchanged.
package gemini
