// Package api contains the HTTP client for the Taskora backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) and its
//     HTTP implementation (see HTTPClient) covering the REST surface
//     of the backend: the /auth endpoints (login, register, refresh,
//     logout, password flows), the thin resource reads (projects,
//     tasks) and a health probe.
//  2. AuthTransport, an http.RoundTripper that stamps every outgoing
//     request with the stored access token and a request id.
//  3. RefreshTransport, an http.RoundTripper that reacts to 401
//     responses by refreshing the access token exactly once per
//     request and replaying it. Concurrent expiries are coalesced
//     into a single refresh call; when refreshing is impossible the
//     session is torn down and the expiry callback fires.
//
// # Error Handling
//
// Server-side failures decode into *Error carrying the HTTP status,
// the backend message and any field-level validation details.
// Transport-level conditions are exposed as sentinel errors that
// callers can match with errors.Is: ErrUnavailable for timeouts and
// connection failures, ErrSessionExpired when token recovery failed
// and the session was discarded.
//
// Concurrency & Contexts
//
// Client and both transports are safe for concurrent use. All
// operations accept context.Context and honor cancellation/timeouts.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  HTTPClient, NewClient
//   - Transports: AuthTransport, RefreshTransport
//   - Errors:     Error, ErrUnavailable, ErrSessionExpired
package api
