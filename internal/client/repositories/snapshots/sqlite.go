package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/common"
	"github.com/taskora/taskora-cli/internal/dbx"
	"github.com/taskora/taskora-cli/internal/logging"
)

// SQLiteRepository stores the snapshot in a single row of the snapshots
// table, keyed by common.SnapshotKey, using a dbx.DBTX (either *sql.DB or
// *sql.Tx). Serialization of concurrent access is left to database/sql.
type SQLiteRepository struct {
	db  dbx.DBTX
	log logging.Logger
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX, log logging.Logger) *SQLiteRepository {
	if log == nil {
		log = logging.NewNop()
	}
	return &SQLiteRepository{db: db, log: log}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*session.Snapshot, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE key = ?`, common.SnapshotKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(value, &snap); err != nil {
		r.discard(ctx, "unparsable")
		return nil, nil
	}
	if !snap.Valid() {
		r.discard(ctx, "invalid")
		return nil, nil
	}
	return &snap, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, snap *session.Snapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, common.SnapshotKey, value)
	if err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE key = ?`, common.SnapshotKey)
	if err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) discard(ctx context.Context, reason string) {
	r.log.Warn(ctx, "discarding stored session snapshot", "reason", reason)
	if err := r.Clear(ctx); err != nil {
		r.log.Error(ctx, "failed to remove snapshot", "error", err.Error())
	}
}
