package snapshots

import (
	"context"

	"github.com/taskora/taskora-cli/internal/client/session"
	"github.com/taskora/taskora-cli/internal/logging"
)

// TransitionHook adapts a Repository into a session.Manager onTransition
// callback: a non-nil snapshot is saved, nil clears the store. Storage
// failures are logged and swallowed so a broken disk cannot block a
// login or logout.
func TransitionHook(repo Repository, log logging.Logger) func(*session.Snapshot) {
	if log == nil {
		log = logging.NewNop()
	}
	return func(snap *session.Snapshot) {
		ctx := context.Background()

		var err error
		if snap == nil {
			err = repo.Clear(ctx)
		} else {
			err = repo.Save(ctx, snap)
		}
		if err != nil {
			log.Error(ctx, "failed to persist session snapshot", "error", err.Error())
		}
	}
}
