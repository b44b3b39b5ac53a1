// Package snapshots persists the session snapshot: one record under a fixed
// key, with a file-backed implementation used by default and a SQLite one
// for installations that already keep a local database.
package snapshots

import (
	"context"

	"github.com/taskora/taskora-cli/internal/client/session"
)

// Repository stores at most one session snapshot.
//
// Contract:
//   - Load returns (nil, nil) when no usable snapshot exists. A corrupt or
//     invalid record is removed as a side effect and reported as absent,
//     never as an error; only infrastructure failures surface.
//   - Save and Clear are synchronous, last-write-wins.
type Repository interface {
	Load(ctx context.Context) (*session.Snapshot, error)
	Save(ctx context.Context, snap *session.Snapshot) error
	Clear(ctx context.Context) error
}
