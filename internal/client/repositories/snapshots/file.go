package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/common"
	"github.com/taskora/taskora-cli/internal/logging"
)

// FileRepository keeps the snapshot as a single JSON file in the data
// directory. Writes go through a temp file plus rename so a crash can never
// leave a half-written record behind.
type FileRepository struct {
	mu   sync.Mutex
	path string
	log  logging.Logger
}

func NewFileRepository(dir string, log logging.Logger) *FileRepository {
	if log == nil {
		log = logging.NewNop()
	}
	return &FileRepository{
		path: filepath.Join(dir, common.SnapshotKey+".json"),
		log:  log,
	}
}

func (r *FileRepository) Load(ctx context.Context) (*session.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.discardLocked(ctx, "unparsable")
		return nil, nil
	}
	if !snap.Valid() {
		r.discardLocked(ctx, "invalid")
		return nil, nil
	}
	return &snap, nil
}

func (r *FileRepository) Save(ctx context.Context, snap *session.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (r *FileRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked()
}

// discardLocked removes a record that failed validation so the next Load
// starts from a clean slate.
func (r *FileRepository) discardLocked(ctx context.Context, reason string) {
	r.log.Warn(ctx, "discarding stored session snapshot", "reason", reason)
	if err := r.removeLocked(); err != nil {
		r.log.Error(ctx, "failed to remove snapshot", "error", err.Error())
	}
}

func (r *FileRepository) removeLocked() error {
	err := os.Remove(r.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
