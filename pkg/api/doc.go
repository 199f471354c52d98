// Package api defines the wire types shared by the authgate HTTP endpoints.
//
// The package has zero external dependencies (Go standard library only) and
// performs no I/O. Error responses use a single envelope:
//
//	{"error": {"type": "forbidden", "message": "Forbidden"}}
//
// Core types:
//   - [APIError]: Structured error with type, param, and message
//   - [UserView]: JSON projection of an authenticated principal
package api
