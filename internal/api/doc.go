// Package api handles incoming HTTP requests for the proxy: request parsing,
// translation of generation errors into HTTP status codes and response
// formatting. It is an adapter between browser clients and the generation
// service; it never talks to the provider directly.
package api
