package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/taskora/taskora-cli/internal/client/api"
	"github.com/taskora/taskora-cli/internal/client/config"
	"github.com/taskora/taskora-cli/internal/client/repositories/snapshots"
	"github.com/taskora/taskora-cli/internal/client/services"
	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/filex"
	"github.com/taskora/taskora-cli/internal/logging"
)

// Mode reflects the last known reachability of the backend.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App bundles everything the REPL needs: configuration, the session and
// resource services, and the connectivity mode maintained by the watcher.
type App struct {
	config    *config.Config
	sessions  services.SessionService
	resources services.ResourceService
	log       logging.Logger
	reader    *bufio.Reader
	db        *sql.DB

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the full client stack from configuration: data directory,
// session store (file or sqlite), session manager with a persistence hook,
// API client with token recovery, and the application services on top.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	// Warn level keeps routine request logging out of the interactive UI.
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	dir := c.DataDir
	if dir == "" {
		var err error
		dir, err = filex.DefaultDataDir("taskora")
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
	}
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}

	app := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin)}

	var store snapshots.Repository
	switch c.StorageDriver {
	case config.StorageDriverSQLite:
		db, err := snapshots.OpenDatabase(ctx, filepath.Join(dir, "taskora.db"))
		if err != nil {
			return nil, fmt.Errorf("open session database: %w", err)
		}
		app.db = db
		store = snapshots.NewSQLiteRepository(db, log)
	default:
		store = snapshots.NewFileRepository(dir, log)
	}

	manager := session.NewManager(log, snapshots.TransitionHook(store, log))

	client := api.NewClient(api.Options{
		BaseURL: c.BaseURL,
		Timeout: c.RequestTimeout,
		Store:   store,
		Manager: manager,
		OnSessionExpired: func() {
			printlnFn("Session expired, please log in again.")
		},
		Logger: log,
	})

	app.sessions = services.NewSessionService(client, manager, store, log)
	app.resources = services.NewResourceService(client)

	return app, nil
}

// Close releases resources held by the app, currently only the sqlite
// database when that driver is active.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Run restores a saved session, starts the connectivity watcher and hands
// control to the REPL. It blocks until the user exits or ctx is canceled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if u := a.sessions.Restore(ctx); u != nil {
		printlnFn(fmt.Sprintf("Welcome back, %s!", u.FullName()))
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.PingInterval)

	printlnFn("Taskora CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

// Mode returns the connectivity mode last observed by the watcher.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) getStatus() string {
	s := ""
	if snap := a.sessions.Current(); snap != nil && snap.User != nil {
		s = snap.User.Email + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher probes the backend health endpoint once
// immediately and then every interval, flipping Mode between online and
// offline. It returns when ctx is canceled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	probe := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.resources.Ping(pctx)
		cancel()

		if err != nil {
			a.setMode(ModeOffline)
		} else {
			a.setMode(ModeOnline)
		}
	}

	probe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probe()
		case <-ctx.Done():
			return
		}
	}
}
