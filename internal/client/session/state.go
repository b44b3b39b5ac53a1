package session

// State enumerates the phases of the authentication lifecycle.
type State int

const (
	// StateAnonymous is the initial state: no user, no tokens.
	StateAnonymous State = iota
	// StateAuthenticating means a login or register call is in flight.
	StateAuthenticating
	// StateAuthenticated means the session holds a user and an access token.
	StateAuthenticated
	// StateRestoring is entered only at start-up while the persisted
	// snapshot is being read.
	StateRestoring
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRestoring:
		return "restoring"
	default:
		return "unknown"
	}
}
