package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taskora/taskora-cli/internal/client/repositories/snapshots"
	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/logging"
)

// DefaultBaseURL is used when no endpoint is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout bounds a single request, including a possible token
// refresh and replay.
const DefaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:5000/api.
	// Empty means DefaultBaseURL.
	BaseURL string
	// Timeout is the per-request budget. Zero means DefaultTimeout.
	Timeout time.Duration
	// Store supplies the access token stamped onto outgoing requests.
	Store snapshots.Repository
	// Manager owns the in-memory session the recovery path updates.
	Manager *session.Manager
	// OnSessionExpired fires after a failed recovery has discarded the
	// session, once per burst of expired requests. Optional.
	OnSessionExpired func()
	// Transport replaces the base RoundTripper, nil means
	// http.DefaultTransport.
	Transport http.RoundTripper
	Logger    logging.Logger
}

// Client is the contract of the Taskora backend as seen by the
// application services.
type Client interface {
	Login(ctx context.Context, creds session.Credentials) (*AuthResult, error)
	Register(ctx context.Context, data RegisterData) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	ChangePassword(ctx context.Context, current, next string) error
	ListProjects(ctx context.Context) ([]Project, error)
	ListTasks(ctx context.Context, projectID string) ([]Task, error)
	Ping(ctx context.Context) error
}

// HTTPClient talks to the Taskora REST backend. Credential endpoints
// (login, register, refresh, logout and the password flows) run on a
// plain pipeline where a 401 is a definitive answer about the
// credentials. Resource calls and ChangePassword run on the recovery
// pipeline, where an expired access token is refreshed and the request
// replayed before the caller sees anything.
type HTTPClient struct {
	baseURL   string
	plain     *http.Client
	recovered *http.Client
	log       logging.Logger
}

func NewClient(opts Options) *HTTPClient {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &HTTPClient{baseURL: baseURL, log: log}

	// The recovery transport calls back into c.RefreshToken, which runs
	// on the plain pipeline and therefore cannot recurse.
	auth := NewAuthTransport(opts.Transport, opts.Store, log)
	c.plain = &http.Client{Timeout: timeout, Transport: auth}
	c.recovered = &http.Client{
		Timeout:   timeout,
		Transport: NewRefreshTransport(auth, c, opts.Manager, opts.OnSessionExpired, log),
	}
	return c
}

// Login exchanges credentials for the user profile and token pair.
func (c *HTTPClient) Login(ctx context.Context, creds session.Credentials) (*AuthResult, error) {
	var out AuthResult
	err := c.post(ctx, c.plain, "/auth/login", loginRequest{Email: creds.Email, Password: creds.Password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns it logged in.
func (c *HTTPClient) Register(ctx context.Context, data RegisterData) (*AuthResult, error) {
	req := registerRequest{
		Email:     data.Email,
		Password:  data.Password,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Role:      string(data.Role),
		Phone:     data.Phone,
	}
	var out AuthResult
	if err := c.post(ctx, c.plain, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken trades a refresh token for a new access token. Also used
// by RefreshTransport during 401 recovery.
func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var out refreshResponse
	if err := c.post(ctx, c.plain, "/auth/refresh-token", refreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("refresh response contains no token")
	}
	return out.Token, nil
}

// Logout invalidates the session on the backend.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.post(ctx, c.plain, "/auth/logout", nil, nil)
}

// ForgotPassword asks the backend to start a password reset for email.
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, c.plain, "/auth/forgot-password", forgotPasswordRequest{Email: email}, nil)
}

// ResetPassword completes a reset started by ForgotPassword.
func (c *HTTPClient) ResetPassword(ctx context.Context, token, password string) error {
	return c.post(ctx, c.plain, "/auth/reset-password", resetPasswordRequest{Token: token, Password: password}, nil)
}

// ChangePassword replaces the password of the signed-in user. Runs on
// the recovery pipeline so an expired access token does not fail the
// call.
func (c *HTTPClient) ChangePassword(ctx context.Context, current, next string) error {
	return c.post(ctx, c.recovered, "/auth/change-password", changePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}

// ListProjects returns the projects visible to the signed-in user.
func (c *HTTPClient) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.get(ctx, c.recovered, "/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTasks returns tasks, narrowed to one project when projectID is
// not empty.
func (c *HTTPClient) ListTasks(ctx context.Context, projectID string) ([]Task, error) {
	path := "/tasks"
	if projectID != "" {
		path += "?project=" + url.QueryEscape(projectID)
	}
	var out []Task
	if err := c.get(ctx, c.recovered, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping probes the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var out healthResponse
	if err := c.get(ctx, c.plain, "/health", &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, hc *http.Client, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(hc, req, out)
}

func (c *HTTPClient) get(ctx context.Context, hc *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(hc, req, out)
}

func (c *HTTPClient) do(hc *http.Client, req *http.Request, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	defer drain(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns an error-status response into *Error. The body is
// expected to carry the backend's {error, details} envelope; anything
// else degrades to the bare HTTP status text.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(body) > 0 {
		var envelope errorResponse
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
			apiErr.Details = envelope.Details
		}
	}
	return apiErr
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}

	var nerr net.Error
	var oerr *net.OpError
	switch {
	case errors.Is(err, ErrSessionExpired):
		return err
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: timeout", ErrUnavailable)
	case errors.As(err, &nerr) && nerr.Timeout():
		return fmt.Errorf("%w: timeout", ErrUnavailable)
	case errors.As(err, &oerr):
		return fmt.Errorf("%w: %v", ErrUnavailable, oerr)
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}
