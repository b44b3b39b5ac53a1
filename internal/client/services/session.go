// Package services contains application services for the Taskora client.
// This file defines the session service: the orchestration layer between
// the REPL commands, the API client and the session state machine.
package services

import (
	"context"
	"fmt"

	"github.com/taskora/taskora-cli/internal/client/api"
	"github.com/taskora/taskora-cli/internal/client/repositories/snapshots"
	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/common"
	"github.com/taskora/taskora-cli/internal/logging"
)

// SessionService defines the session lifecycle operations for the CLI.
//
// Contract:
//   - Login/Register: authenticate against the server and persist the session.
//   - Restore: rehydrate a previous session from the local store at startup.
//   - Logout: best-effort server logout that always clears the local session;
//     it never fails from the caller's perspective and repeating it is a no-op.
//   - ForgotPassword/ResetPassword: anonymous password recovery flow.
//   - ChangePassword: replace the password of the signed-in user; fails
//     with common.ErrNotAuthenticated when no user is signed in.
//   - Current: persistable view of the signed-in session, nil when anonymous.
//
// All methods must honor context cancellation/timeouts.
type SessionService interface {
	Login(ctx context.Context, creds session.Credentials) (*session.User, error)
	Register(ctx context.Context, data api.RegisterData) (*session.User, error)
	Restore(ctx context.Context) *session.User
	Logout(ctx context.Context)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	ChangePassword(ctx context.Context, current, next string) error
	Current() *session.Snapshot
}

// sessionService is the concrete SessionService backed by the remote
// Client, the session state machine and the local snapshot store.
type sessionService struct {
	client  api.Client
	manager *session.Manager
	store   snapshots.Repository
	log     logging.Logger
}

// NewSessionService constructs a SessionService. The manager is expected
// to carry a transition hook persisting into store, so this service only
// reads the store directly (during Restore).
func NewSessionService(client api.Client, manager *session.Manager, store snapshots.Repository, log logging.Logger) SessionService {
	if log == nil {
		log = logging.NewNop()
	}
	return &sessionService{client: client, manager: manager, store: store, log: log}
}

// Login authenticates against the server and adopts the returned
// identity and token pair. On failure the session returns to anonymous
// and the server's answer is wrapped for the caller.
func (s *sessionService) Login(ctx context.Context, creds session.Credentials) (*session.User, error) {
	s.manager.LoginStart()

	res, err := s.client.Login(ctx, creds)
	if err != nil {
		s.manager.LoginFailure()
		return nil, fmt.Errorf("login error: %w", err)
	}

	s.manager.LoginSuccess(res.User, res.Token, res.RefreshToken)
	return res.User, nil
}

// Register creates an account and signs it in right away.
func (s *sessionService) Register(ctx context.Context, data api.RegisterData) (*session.User, error) {
	s.manager.RegisterStart()

	res, err := s.client.Register(ctx, data)
	if err != nil {
		s.manager.RegisterFailure()
		return nil, fmt.Errorf("register error: %w", err)
	}

	s.manager.RegisterSuccess(res.User, res.Token, res.RefreshToken)
	return res.User, nil
}

// Restore rehydrates the session persisted by a previous run. A missing,
// unreadable or invalid snapshot leaves the session anonymous; restore
// itself never fails.
func (s *sessionService) Restore(ctx context.Context) *session.User {
	s.manager.RestoreStart()

	snap, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to read stored session, starting anonymous", "error", err.Error())
	}
	if !snap.Valid() {
		s.manager.RestoreAbsent()
		return nil
	}

	s.manager.RestoreFound(snap)
	return s.manager.User()
}

// Logout invalidates the session on the server when possible and always
// clears the local one. A server failure is logged, not surfaced.
func (s *sessionService) Logout(ctx context.Context) {
	if !s.manager.IsAuthenticated() {
		return
	}
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn(ctx, "server logout failed, clearing local session anyway", "error", err.Error())
	}
	s.manager.Logout()
}

// ForgotPassword starts the e-mail recovery flow.
func (s *sessionService) ForgotPassword(ctx context.Context, email string) error {
	return s.client.ForgotPassword(ctx, email)
}

// ResetPassword completes the recovery flow with the e-mailed token.
func (s *sessionService) ResetPassword(ctx context.Context, token, password string) error {
	return s.client.ResetPassword(ctx, token, password)
}

// ChangePassword replaces the password of the signed-in user. The token
// pair stays valid, so the session is untouched.
func (s *sessionService) ChangePassword(ctx context.Context, current, next string) error {
	if !s.manager.IsAuthenticated() {
		return common.ErrNotAuthenticated
	}
	return s.client.ChangePassword(ctx, current, next)
}

// Current returns the persistable view of the session, nil when anonymous.
func (s *sessionService) Current() *session.Snapshot {
	return s.manager.Snapshot()
}
