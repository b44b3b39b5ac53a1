package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora-cli/internal/client/session"
)

func storedCliSnapshot() *session.Snapshot {
	return &session.Snapshot{
		User:            cliUser(),
		AccessToken:     "access-1",
		RefreshToken:    "refresh-1",
		IsAuthenticated: true,
	}
}

func TestIsLoggedIn(t *testing.T) {
	a := &App{sessions: &fakeSessions{}}
	if a.isLoggedIn() {
		t.Fatal("expected isLoggedIn() == false without a session")
	}

	a = &App{sessions: &fakeSessions{current: storedCliSnapshot()}}
	if !a.isLoggedIn() {
		t.Fatal("expected isLoggedIn() == true with a session")
	}
}

func TestSetMode_ChangesAndPrintsOnce(t *testing.T) {
	lines := capturePrintln(t)
	a := &App{sessions: &fakeSessions{}}

	a.setMode(ModeOnline)
	if a.Mode() != ModeOnline {
		t.Fatalf("expected mode %q, got %q", ModeOnline, a.Mode())
	}
	if len(*lines) != 1 {
		t.Fatalf("expected one line on mode change, got %v", *lines)
	}

	a.setMode(ModeOnline)
	if len(*lines) != 1 {
		t.Fatalf("expected no output when mode doesn't change, got %v", *lines)
	}

	a.setMode(ModeOffline)
	if a.Mode() != ModeOffline {
		t.Fatalf("expected mode %q, got %q", ModeOffline, a.Mode())
	}
	if len(*lines) != 2 {
		t.Fatalf("expected output on mode change to offline, got %v", *lines)
	}
}

func TestGetStatus(t *testing.T) {
	a := &App{sessions: &fakeSessions{}}
	if got := a.getStatus(); got != "" {
		t.Fatalf("anonymous status must be empty, got %q", got)
	}

	a = &App{sessions: &fakeSessions{current: storedCliSnapshot()}}
	a.mode = ModeOnline
	if got := a.getStatus(); got != "(dev@taskora.io online)" {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestStartOnlineStatusWatcher_FlipsModes(t *testing.T) {
	mutePrintln(t)

	f := &fakeResources{}
	a := &App{sessions: &fakeSessions{}, resources: f}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.StartOnlineStatusWatcher(ctx, 20*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, 2*time.Second, 5*time.Millisecond)

	f.setPingErr(errors.New("connection refused"))
	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, 2*time.Second, 5*time.Millisecond)

	f.setPingErr(nil)
	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
