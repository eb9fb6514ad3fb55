// Package testutils provides shared helpers for tests: an in-memory slog
// handler for asserting on log output and assertions for the proxy's JSON
// error responses.
package testutils
