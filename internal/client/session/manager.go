package session

import (
	"context"
	"sync"

	"github.com/taskora/taskora-cli/internal/logging"
)

// Manager is the session state machine. All mutations go through event
// methods (LoginStart, LoginSuccess, ...); an event that is not legal in the
// current state is ignored. This makes operations like a second logout
// naturally idempotent instead of error paths.
//
// The onTransition hook is invoked synchronously inside the manager's
// critical section whenever the persisted view of the session changes:
// with a snapshot to save, or with nil to clear. Running it under the lock
// guarantees the store can never be observed out of step with memory.
//
// Safe for concurrent use.
type Manager struct {
	mu           sync.Mutex
	state        State
	user         *User
	accessToken  string
	refreshToken string

	onTransition func(*Snapshot)
	log          logging.Logger
}

// NewManager creates a Manager in StateAnonymous. onTransition may be nil
// when no persistence is wanted (tests).
func NewManager(log logging.Logger, onTransition func(*Snapshot)) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{state: StateAnonymous, onTransition: onTransition, log: log}
}

// LoginStart marks the beginning of an interactive login.
func (m *Manager) LoginStart() { m.beginAuth("login_start") }

// RegisterStart marks the beginning of an account registration.
func (m *Manager) RegisterStart() { m.beginAuth("register_start") }

func (m *Manager) beginAuth(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnonymous {
		m.ignored(event)
		return
	}
	m.state = StateAuthenticating
}

// LoginSuccess adopts the server-issued identity and token pair.
func (m *Manager) LoginSuccess(u *User, accessToken, refreshToken string) {
	m.completeAuth("login_success", u, accessToken, refreshToken)
}

// RegisterSuccess adopts the identity and token pair of a fresh account.
func (m *Manager) RegisterSuccess(u *User, accessToken, refreshToken string) {
	m.completeAuth("register_success", u, accessToken, refreshToken)
}

func (m *Manager) completeAuth(event string, u *User, accessToken, refreshToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticating {
		m.ignored(event)
		return
	}
	m.state = StateAuthenticated
	m.user = u
	m.accessToken = accessToken
	m.refreshToken = refreshToken
	m.persistLocked()
}

// LoginFailure resets the session after a failed login attempt.
func (m *Manager) LoginFailure() { m.failAuth("login_failure") }

// RegisterFailure resets the session after a failed registration.
func (m *Manager) RegisterFailure() { m.failAuth("register_failure") }

func (m *Manager) failAuth(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticating {
		m.ignored(event)
		return
	}
	m.clearLocked()
}

// Logout clears the session. Only legal while authenticated; a repeated
// logout is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticated {
		m.ignored("logout")
		return
	}
	m.clearLocked()
}

// RestoreStart enters the transient start-up state while the persisted
// snapshot is read.
func (m *Manager) RestoreStart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnonymous {
		m.ignored("restore_start")
		return
	}
	m.state = StateRestoring
}

// RestoreFound hydrates the session from a persisted snapshot.
func (m *Manager) RestoreFound(snap *Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRestoring || !snap.Valid() {
		m.ignored("restore_found")
		return
	}
	m.state = StateAuthenticated
	m.user = snap.User
	m.accessToken = snap.AccessToken
	m.refreshToken = snap.RefreshToken
	m.persistLocked()
}

// RestoreAbsent returns to anonymous when no usable snapshot exists.
func (m *Manager) RestoreAbsent() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRestoring {
		m.ignored("restore_absent")
		return
	}
	m.state = StateAnonymous
}

// TokenRefreshed replaces the access token after a successful refresh.
// The refresh token and user stay untouched.
func (m *Manager) TokenRefreshed(accessToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticated {
		m.ignored("token_refreshed")
		return
	}
	m.accessToken = accessToken
	m.persistLocked()
}

// clearLocked wipes all session fields and removes the persisted snapshot.
func (m *Manager) clearLocked() {
	m.state = StateAnonymous
	m.user = nil
	m.accessToken = ""
	m.refreshToken = ""
	if m.onTransition != nil {
		m.onTransition(nil)
	}
}

func (m *Manager) persistLocked() {
	if m.onTransition != nil {
		m.onTransition(m.snapshotLocked())
	}
}

func (m *Manager) snapshotLocked() *Snapshot {
	if m.user == nil || m.accessToken == "" {
		return nil
	}
	u := *m.user
	return &Snapshot{
		User:            &u,
		AccessToken:     m.accessToken,
		RefreshToken:    m.refreshToken,
		IsAuthenticated: true,
	}
}

func (m *Manager) ignored(event string) {
	m.log.Debug(context.Background(), "event ignored in current state",
		"event", event, "state", m.state.String())
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether the session holds a user and access token.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.accessToken != ""
}

// IsLoading reports whether an authentication or restore is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateAuthenticating || m.state == StateRestoring
}

// User returns a copy of the signed-in user, or nil when anonymous.
func (m *Manager) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// AccessToken returns the current access token ("" when anonymous).
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// RefreshToken returns the current refresh token ("" when absent).
func (m *Manager) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken
}

// Snapshot returns the persistable view of the session, or nil when the
// session is not authenticated.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}
