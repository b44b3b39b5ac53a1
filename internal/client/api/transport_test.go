package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/common"
)

/*************
 * Test doubles
 *************/

// memStore is an in-memory snapshots.Repository.
type memStore struct {
	mu      sync.Mutex
	snap    *session.Snapshot
	loadErr error
	loads   int
}

func (s *memStore) Load(ctx context.Context) (*session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.snap.Clone(), nil
}

func (s *memStore) Save(ctx context.Context, snap *session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}

func (s *memStore) current() *session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

func (s *memStore) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func storedSnapshot(access, refresh string) *session.Snapshot {
	return &session.Snapshot{
		User: &session.User{
			ID:        "u1",
			Email:     "dev@taskora.io",
			FirstName: "Dana",
			LastName:  "Developer",
			Role:      session.RoleDeveloper,
			IsActive:  true,
		},
		AccessToken:     access,
		RefreshToken:    refresh,
		IsAuthenticated: true,
	}
}

// headerRecorder keeps the headers of every request the server saw.
type headerRecorder struct {
	mu   sync.Mutex
	auth []string
	ids  []string
}

func (h *headerRecorder) record(r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.auth = append(h.auth, r.Header.Get(common.AuthHeaderName))
	h.ids = append(h.ids, r.Header.Get(common.RequestIDHeaderName))
}

func (h *headerRecorder) authHeaders() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.auth...)
}

func (h *headerRecorder) requestIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ids...)
}

/*************
 * AuthTransport tests
 *************/

func TestAuthTransport_AttachesStoredToken(t *testing.T) {
	store := &memStore{snap: storedSnapshot("A1", "R1")}
	rec := &headerRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
	}))
	defer srv.Close()

	hc := &http.Client{Transport: NewAuthTransport(nil, store, nil)}
	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"Bearer A1"}, rec.authHeaders())
	require.NotEmpty(t, rec.requestIDs()[0])
}

func TestAuthTransport_NoTokenSendsAnonymousRequest(t *testing.T) {
	store := &memStore{}
	rec := &headerRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
	}))
	defer srv.Close()

	hc := &http.Client{Transport: NewAuthTransport(nil, store, nil)}
	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{""}, rec.authHeaders())
	require.NotEmpty(t, rec.requestIDs()[0])
}

func TestAuthTransport_StoreFailureSendsAnonymousRequest(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk gone")}
	rec := &headerRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
	}))
	defer srv.Close()

	hc := &http.Client{Transport: NewAuthTransport(nil, store, nil)}
	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{""}, rec.authHeaders())
}

func TestAuthTransport_ReadsStoreOnEveryRequest(t *testing.T) {
	// токен подменяется между запросами, транспорт должен увидеть новый
	store := &memStore{snap: storedSnapshot("A1", "R1")}
	rec := &headerRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
	}))
	defer srv.Close()

	hc := &http.Client{Transport: NewAuthTransport(nil, store, nil)}

	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.NoError(t, store.Save(context.Background(), storedSnapshot("A2", "R1")))

	resp, err = hc.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"Bearer A1", "Bearer A2"}, rec.authHeaders())
	require.Equal(t, 2, store.loadCount())
}

func TestAuthTransport_KeepsCallerRequestID(t *testing.T) {
	store := &memStore{snap: storedSnapshot("A1", "R1")}
	rec := &headerRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(common.RequestIDHeaderName, "fixed-id")

	hc := &http.Client{Transport: NewAuthTransport(nil, store, nil)}
	resp, err := hc.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"fixed-id"}, rec.requestIDs())
}

func TestAuthTransport_DoesNotMutateCallerRequest(t *testing.T) {
	store := &memStore{snap: storedSnapshot("A1", "R1")}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	rt := NewAuthTransport(nil, store, nil)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, req.Header.Get(common.AuthHeaderName))
	require.Empty(t, req.Header.Get(common.RequestIDHeaderName))
}
