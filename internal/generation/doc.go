// Package generation holds the proxy's single business operation: turning a
// client's generation request into one call to an external LLM service
// (Gemini) and reshaping the result into the public response contract.
//
// The package owns request normalization (mode, inputs, default prompt), the
// mapping of the client parameter bag onto the provider's generation
// configuration, and the error taxonomy the HTTP layer translates into status
// codes. The upstream service itself sits behind the Provider interface so the
// core stays independent of any SDK.
package generation
