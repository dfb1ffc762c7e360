package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/scorekeeper/internal/platform/errors"
	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// PlayerRecord is one roster entry of a stored session.
type PlayerRecord struct {
	ID   string
	Name string
}

// SessionRecord is a completed session with its full character log.
type SessionRecord struct {
	ID                  string
	Name                string
	ResurrectionAllowed bool
	Players             []PlayerRecord
	StartedAt           time.Time
	CompletedAt         time.Time
	// Events is the character log exactly as the engine produced it.
	Events []character.Event
}

// SessionSummary is the list view of a completed session.
type SessionSummary struct {
	ID          string
	Name        string
	PlayerCount int
	EventCount  int
	DeathCount  int
	CompletedAt time.Time
}

// SessionStore persists completed sessions.
type SessionStore interface {
	PutCompletedSession(ctx context.Context, record SessionRecord) error
	GetCompletedSession(ctx context.Context, id string) (SessionRecord, error)
	ListCompletedSessions(ctx context.Context, limit int) ([]SessionSummary, error)
}
