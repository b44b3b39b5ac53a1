// Package cli provides the interactive Taskora command-line client.
//
// It wires configuration, the local session store, the API client, and an
// interactive REPL on top of them. Typical flow: restore a previously saved
// session, start a background connectivity watcher, and execute user
// commands until exit.
//
// Key features:
//   - Login / Register / Logout against the Taskora backend
//   - Password flows: forgot, reset, change
//   - List projects and tasks of the current workspace
//   - Session status, including access token expiry
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
