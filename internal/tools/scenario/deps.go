package scenario

import (
	"context"
	"time"

	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
	"github.com/louisbranch/scorekeeper/internal/services/game/session"
	"github.com/louisbranch/scorekeeper/internal/services/game/storage"
)

// sessionHost is the slice of session.Manager the runner drives.
type sessionHost interface {
	Start(ctx context.Context, in session.StartInput) (session.Snapshot, error)
	Apply(ctx context.Context, sessionID string, expectedVersion int, op session.Op) (session.Snapshot, error)
	Propose(ctx context.Context, sessionID string, candidate character.Identity) error
	Snapshot(sessionID string) (session.Snapshot, error)
	Complete(ctx context.Context, sessionID string, completedAt time.Time) (storage.SessionRecord, error)
	Abandon(ctx context.Context, sessionID string) error
}

// runnerDeps bundles injectable dependencies for runner construction.
type runnerDeps struct {
	host  sessionHost
	clock func() time.Time
}
