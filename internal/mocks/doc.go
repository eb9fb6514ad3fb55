// Package mocks provides shared test doubles for the proxy's ports.
//
// MockProvider implements generation.Provider with an optional GenerateFn
// override and canned Result/Err values, and records every call so tests can
// assert on the model, prompt and configuration that reached the provider:
//
//	provider := mocks.NewMockProviderWithText("once upon a time")
//	svc, _ := generation.NewService(provider, "gemini-1.5-flash-latest", logger)
//	...
//	calls := provider.Calls()
package mocks
