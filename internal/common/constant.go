// Package common contains shared constants and sentinel errors used across
// Taskora client components.
package common

const (
	// AuthHeaderName is the HTTP header used to carry the access token on
	// outbound requests.
	AuthHeaderName = "Authorization"

	// BearerPrefix prefixes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName carries a per-request id for server-side log
	// correlation.
	RequestIDHeaderName = "X-Request-ID"

	// SnapshotKey is the fixed key the persisted session snapshot is stored
	// under, regardless of the storage backend.
	SnapshotKey = "session"
)
