package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/scorekeeper/internal/platform/id"
	platformotel "github.com/louisbranch/scorekeeper/internal/platform/otel"
	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
	"github.com/louisbranch/scorekeeper/internal/services/game/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AnyVersion skips the optimistic version check on Apply.
const AnyVersion = -1

// PlayerInput is one roster entry for a new session.
type PlayerInput struct {
	ID       string
	Name     string
	Identity character.Identity
}

// StartInput describes a session to start.
type StartInput struct {
	Name                string
	ResurrectionAllowed bool
	Players             []PlayerInput
}

// Snapshot is a consistent copy of a live session.
type Snapshot struct {
	ID                  string
	Name                string
	ResurrectionAllowed bool
	Players             []storage.PlayerRecord
	StartedAt           time.Time
	// Version is the number of events in Log.
	Version int
	State   character.State
	Log     []character.Event
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists completed sessions to store.
func WithStore(store storage.SessionStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithClock overrides the clock used for event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(idGenerator func() (string, error)) Option {
	return func(m *Manager) {
		if idGenerator != nil {
			m.idGenerator = idGenerator
		}
	}
}

// Manager hosts live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*liveSession

	store       storage.SessionStore
	clock       func() time.Time
	idGenerator func() (string, error)
}

type liveSession struct {
	mu sync.Mutex

	id                  string
	name                string
	resurrectionAllowed bool
	players             []storage.PlayerRecord
	startedAt           time.Time
	engine              *character.Engine
	closed              bool
}

// NewManager creates a Manager with no live sessions.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*liveSession),
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Start creates a live session and assigns every player's starting character.
func (m *Manager) Start(ctx context.Context, in StartInput) (snap Snapshot, err error) {
	ctx, span := startSpan(ctx, "Start", attribute.Int("session.players", len(in.Players)))
	defer func() { endSpan(span, err) }()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Snapshot{}, ErrNameRequired
	}
	if len(in.Players) == 0 {
		return Snapshot{}, ErrRosterEmpty
	}

	sessionID, err := m.idGenerator()
	if err != nil {
		return Snapshot{}, fmt.Errorf("generate session id: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", sessionID))

	assignments := make([]character.Assignment, 0, len(in.Players))
	players := make([]storage.PlayerRecord, 0, len(in.Players))
	for _, player := range in.Players {
		playerID := strings.TrimSpace(player.ID)
		playerName := strings.TrimSpace(player.Name)
		assignments = append(assignments, character.Assignment{
			PlayerID:   playerID,
			PlayerName: playerName,
			Identity:   player.Identity,
		})
		players = append(players, storage.PlayerRecord{ID: playerID, Name: playerName})
	}

	engine := character.NewEngine(character.WithClock(m.clock))
	if _, err := engine.Initialize(assignments); err != nil {
		return Snapshot{}, fmt.Errorf("initialize characters: %w", err)
	}

	live := &liveSession{
		id:                  sessionID,
		name:                name,
		resurrectionAllowed: in.ResurrectionAllowed,
		players:             players,
		startedAt:           m.clock().UTC(),
		engine:              engine,
	}

	m.mu.Lock()
	if _, exists := m.sessions[sessionID]; exists {
		m.mu.Unlock()
		return Snapshot{}, fmt.Errorf("session id %s already in use", sessionID)
	}
	m.sessions[sessionID] = live
	m.mu.Unlock()

	log.Printf("session %s started: %q with %d players", sessionID, name, len(players))
	return live.snapshot(), nil
}

// Apply runs op against the session if its log is still at expectedVersion.
// Pass AnyVersion to skip the check.
func (m *Manager) Apply(ctx context.Context, sessionID string, expectedVersion int, op Op) (snap Snapshot, err error) {
	if op == nil {
		return Snapshot{}, fmt.Errorf("session op is required")
	}
	ctx, span := startSpan(ctx, "Apply",
		attribute.String("session.id", sessionID),
		attribute.String("session.op", op.Name()),
		attribute.Int("session.expected_version", expectedVersion),
	)
	defer func() { endSpan(span, err) }()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	live, err := m.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.closed {
		return Snapshot{}, ErrSessionNotFound
	}
	if actual := live.engine.Version(); expectedVersion != AnyVersion && expectedVersion != actual {
		return Snapshot{}, versionConflict(expectedVersion, actual)
	}
	if _, err := op.apply(live.engine, live.resurrectionAllowed); err != nil {
		return Snapshot{}, err
	}
	return live.snapshot(), nil
}

// Propose validates a candidate replacement character without changing the
// session.
func (m *Manager) Propose(ctx context.Context, sessionID string, candidate character.Identity) (err error) {
	ctx, span := startSpan(ctx, "Propose", attribute.String("session.id", sessionID))
	defer func() { endSpan(span, err) }()
	if err := ctx.Err(); err != nil {
		return err
	}

	live, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	if live.closed {
		return ErrSessionNotFound
	}
	return live.engine.ProposeReplacement(candidate)
}

// Snapshot returns a copy of the live session.
func (m *Manager) Snapshot(sessionID string) (Snapshot, error) {
	live, err := m.lookup(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	if live.closed {
		return Snapshot{}, ErrSessionNotFound
	}
	return live.snapshot(), nil
}

// Active returns the ids of all live sessions.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for sessionID := range m.sessions {
		ids = append(ids, sessionID)
	}
	return ids
}

// Complete persists the finished session, when a store is configured, and
// removes it from memory. A failed save leaves the session live so the
// caller can retry.
func (m *Manager) Complete(ctx context.Context, sessionID string, completedAt time.Time) (record storage.SessionRecord, err error) {
	ctx, span := startSpan(ctx, "Complete", attribute.String("session.id", sessionID))
	defer func() { endSpan(span, err) }()
	if err := ctx.Err(); err != nil {
		return storage.SessionRecord{}, err
	}

	live, err := m.lookup(sessionID)
	if err != nil {
		return storage.SessionRecord{}, err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	if live.closed {
		return storage.SessionRecord{}, ErrSessionNotFound
	}

	if completedAt.IsZero() {
		completedAt = m.clock()
	}
	record = storage.SessionRecord{
		ID:                  live.id,
		Name:                live.name,
		ResurrectionAllowed: live.resurrectionAllowed,
		Players:             append([]storage.PlayerRecord(nil), live.players...),
		StartedAt:           live.startedAt,
		CompletedAt:         completedAt.UTC(),
		Events:              live.engine.Log(),
	}
	if m.store != nil {
		if err := m.store.PutCompletedSession(ctx, record); err != nil {
			return storage.SessionRecord{}, fmt.Errorf("persist session %s: %w", sessionID, err)
		}
	}

	live.closed = true
	m.remove(sessionID)
	log.Printf("session %s completed with %d events", sessionID, len(record.Events))
	return record, nil
}

// Abandon discards a live session without persisting it.
func (m *Manager) Abandon(ctx context.Context, sessionID string) (err error) {
	_, span := startSpan(ctx, "Abandon", attribute.String("session.id", sessionID))
	defer func() { endSpan(span, err) }()

	live, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	live.mu.Lock()
	defer live.mu.Unlock()
	if live.closed {
		return ErrSessionNotFound
	}
	live.closed = true
	m.remove(sessionID)
	log.Printf("session %s abandoned", sessionID)
	return nil
}

func (m *Manager) lookup(sessionID string) (*liveSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	m.mu.Lock()
	defer m.mu.Unlock()
	live, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}

func (m *Manager) remove(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// snapshot must be called with s.mu held.
func (s *liveSession) snapshot() Snapshot {
	return Snapshot{
		ID:                  s.id,
		Name:                s.name,
		ResurrectionAllowed: s.resurrectionAllowed,
		Players:             append([]storage.PlayerRecord(nil), s.players...),
		StartedAt:           s.startedAt,
		Version:             s.engine.Version(),
		State:               s.engine.State(),
		Log:                 s.engine.Log(),
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return platformotel.Tracer().Start(ctx, "session."+name, trace.WithAttributes(attrs...))
}

// endSpan marks infrastructure failures on the span. Domain rejections are
// normal gameplay and only annotate the span.
func endSpan(span trace.Span, err error) {
	switch {
	case err == nil:
	case character.IsDomainError(err):
		span.SetAttributes(attribute.String("session.rejection", err.Error()))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
