package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status prints the current session and connectivity details: who is logged
// in, the observed backend reachability, and when the access token expires.
func (a *App) Status(ctx context.Context) error {
	snap := a.sessions.Current()
	if snap == nil || snap.User == nil {
		printlnFn("Not logged in.")
		return nil
	}

	printlnFn(fmt.Sprintf("Logged in as:  %s <%s>", snap.User.FullName(), snap.User.Email))
	printlnFn(fmt.Sprintf("Role:          %s", snap.User.Role))
	if m := a.Mode(); m != "" {
		printlnFn(fmt.Sprintf("Connectivity:  %s", m))
	}

	if exp, ok := tokenExpiry(snap.AccessToken); ok {
		left := time.Until(exp).Round(time.Second)
		if left > 0 {
			printlnFn(fmt.Sprintf("Token expires: %s (in %s)", exp.Format(time.RFC3339), left))
		} else {
			printlnFn(fmt.Sprintf("Token expires: %s (expired, will refresh on next request)", exp.Format(time.RFC3339)))
		}
	}

	return nil
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Display only; the server remains the authority on validity.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
