package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/common"
	"github.com/taskora/taskora-cli/internal/logging"
)

type ctxKey int

const retryCountKey ctxKey = 0

func withRetryCount(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, retryCountKey, n)
}

// retryCount reads the replay counter carried in the request context.
// Zero means the request has not been retried yet.
func retryCount(ctx context.Context) int {
	n, _ := ctx.Value(retryCountKey).(int)
	return n
}

// tokenRefresher issues the raw refresh-token exchange against the
// backend. Implemented by Client.
type tokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// RefreshTransport recovers from expired access tokens. The first 401
// a request receives triggers a token refresh and a single replay with
// the new token; a 401 on the replay, and every other status, is
// returned to the caller untouched. Concurrent expiries coalesce into
// one refresh call whose outcome all waiting requests share. When no
// refresh token is stored or the exchange fails, the session is
// discarded, onExpired fires and callers receive ErrSessionExpired.
type RefreshTransport struct {
	inner     http.RoundTripper
	refresher tokenRefresher
	manager   *session.Manager
	onExpired func()
	group     singleflight.Group
	log       logging.Logger
}

// NewRefreshTransport wraps inner with 401 recovery. onExpired may be
// nil when nobody needs to react to a torn-down session.
func NewRefreshTransport(inner http.RoundTripper, refresher tokenRefresher, manager *session.Manager, onExpired func(), log logging.Logger) *RefreshTransport {
	if log == nil {
		log = logging.NewNop()
	}
	return &RefreshTransport{
		inner:     inner,
		refresher: refresher,
		manager:   manager,
		onExpired: onExpired,
		log:       log,
	}
}

func (t *RefreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if retryCount(req.Context()) > 0 {
		return resp, nil
	}

	token, rerr := t.refresh(req.Context())
	drain(resp)
	if rerr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, rerr)
	}

	retry, err := cloneForRetry(req)
	if err != nil {
		return nil, err
	}
	retry.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)

	t.log.Debug(req.Context(), "access token refreshed, replaying request",
		"method", req.Method, "url", req.URL.String())

	return t.inner.RoundTrip(retry)
}

// refresh coalesces concurrent attempts into a single exchange. Exactly
// one goroutine talks to the backend; the rest wait and share its
// outcome, so one burst of expired requests produces one refresh call
// and at most one teardown.
func (t *RefreshTransport) refresh(ctx context.Context) (string, error) {
	v, err, _ := t.group.Do("refresh", func() (any, error) {
		refreshToken := t.manager.RefreshToken()
		if refreshToken == "" {
			t.expire(ctx, common.ErrNoRefreshToken)
			return "", common.ErrNoRefreshToken
		}

		token, err := t.refresher.RefreshToken(ctx, refreshToken)
		if err != nil {
			t.expire(ctx, err)
			return "", err
		}

		t.manager.TokenRefreshed(token)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// expire discards the session and notifies the UI. Runs inside the
// single-flighted section only.
func (t *RefreshTransport) expire(ctx context.Context, cause error) {
	t.log.Info(ctx, "session expired, discarding tokens", "cause", cause.Error())
	t.manager.Logout()
	if t.onExpired != nil {
		t.onExpired()
	}
}

// cloneForRetry copies req with an incremented retry counter and, for
// requests with a body, a rewound body reader.
func cloneForRetry(req *http.Request) (*http.Request, error) {
	retry := req.Clone(withRetryCount(req.Context(), retryCount(req.Context())+1))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		retry.Body = body
	}
	return retry, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
