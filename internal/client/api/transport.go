package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/taskora/taskora-cli/internal/client/repositories/snapshots"
	"github.com/taskora/taskora-cli/internal/common"
	"github.com/taskora/taskora-cli/internal/logging"
)

// AuthTransport stamps every outgoing request with the access token
// from the snapshot store. The store is consulted on each call, so a
// token refreshed between two requests is picked up without any
// coordination with the caller.
type AuthTransport struct {
	base  http.RoundTripper
	store snapshots.Repository
	log   logging.Logger
}

// NewAuthTransport wraps base (http.DefaultTransport when nil) with
// token and request id stamping.
func NewAuthTransport(base http.RoundTripper, store snapshots.Repository, log logging.Logger) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &AuthTransport{base: base, store: store, log: log}
}

// RoundTrip sends a copy of req with the bearer header set when a token
// is stored and a generated request id when the caller did not supply
// one. A store read failure downgrades the request to anonymous rather
// than failing it.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	snap, err := t.store.Load(req.Context())
	if err != nil {
		t.log.Warn(req.Context(), "failed to read session snapshot, sending request anonymously",
			"error", err.Error())
	}
	if snap != nil && snap.AccessToken != "" {
		clone.Header.Set(common.AuthHeaderName, common.BearerPrefix+snap.AccessToken)
	}
	if clone.Header.Get(common.RequestIDHeaderName) == "" {
		clone.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	return t.base.RoundTrip(clone)
}
