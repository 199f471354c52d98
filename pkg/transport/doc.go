// Package transport provides the HTTP middleware chain and error envelope
// shared by the authgate endpoints.
//
// # Middleware
//
// Middleware wraps an http.Handler with cross-cutting behavior. Built-in
// middleware provides panic recovery, request ID assignment (X-Request-ID)
// and structured request logging via log/slog. The authentication gate in
// pkg/auth has the same shape and is chained after these.
//
// # Errors
//
// Error responses use the api.ErrorResponse envelope. WriteAPIError derives
// the HTTP status from the error type.
package transport
