package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
	"github.com/louisbranch/scorekeeper/internal/services/game/storage"
	"go.opentelemetry.io/otel/attribute"
)

// PutCompletedSession stores a finished session and its character log in one
// transaction.
func (s *Store) PutCompletedSession(ctx context.Context, record storage.SessionRecord) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	ctx, span := startSpan(ctx, "PutCompletedSession",
		attribute.String("session.id", record.ID),
		attribute.Int("session.events", len(record.Events)),
	)
	defer func() { endSpan(span, err) }()

	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if record.CompletedAt.IsZero() {
		return fmt.Errorf("completed at is required")
	}
	for i, evt := range record.Events {
		if evt.Seq != uint64(i+1) {
			return fmt.Errorf("event %d has seq %d: %w", i+1, evt.Seq, character.ErrSequenceGap)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, name, resurrection_allowed, started_at, completed_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID,
		record.Name,
		record.ResurrectionAllowed,
		toNanos(record.StartedAt),
		toNanos(record.CompletedAt),
	); err != nil {
		return fmt.Errorf("insert session %s: %w", record.ID, err)
	}

	for position, player := range record.Players {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO session_players (session_id, position, player_id, name) VALUES (?, ?, ?, ?)`,
			record.ID, position, player.ID, player.Name,
		); err != nil {
			return fmt.Errorf("insert session player %s: %w", player.ID, err)
		}
	}

	for _, evt := range record.Events {
		var previousName, previousType sql.NullString
		if evt.PreviousIdentity != nil {
			previousName = sql.NullString{String: evt.PreviousIdentity.Name, Valid: true}
			previousType = sql.NullString{String: evt.PreviousIdentity.Type, Valid: true}
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO character_events (
				session_id, seq, kind, player_id, player_name,
				identity_name, identity_type, previous_name, previous_type, occurred_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID, int64(evt.Seq), string(evt.Kind), evt.PlayerID, evt.PlayerName,
			evt.Identity.Name, evt.Identity.Type, previousName, previousType, toNanos(evt.Timestamp),
		); err != nil {
			return fmt.Errorf("insert character event %d: %w", evt.Seq, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session %s: %w", record.ID, err)
	}
	return nil
}

// GetCompletedSession loads a finished session with its log in append order.
func (s *Store) GetCompletedSession(ctx context.Context, id string) (record storage.SessionRecord, err error) {
	if err := s.ready(ctx); err != nil {
		return storage.SessionRecord{}, err
	}
	ctx, span := startSpan(ctx, "GetCompletedSession", attribute.String("session.id", id))
	defer func() { endSpan(span, err) }()

	var startedAt, completedAt int64
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, resurrection_allowed, started_at, completed_at FROM sessions WHERE id = ?`,
		strings.TrimSpace(id),
	).Scan(&record.ID, &record.Name, &record.ResurrectionAllowed, &startedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SessionRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SessionRecord{}, fmt.Errorf("get session %s: %w", id, err)
	}
	record.StartedAt = fromNanos(startedAt)
	record.CompletedAt = fromNanos(completedAt)

	if record.Players, err = s.listPlayers(ctx, record.ID); err != nil {
		return storage.SessionRecord{}, err
	}
	if record.Events, err = s.listEvents(ctx, record.ID); err != nil {
		return storage.SessionRecord{}, err
	}
	return record, nil
}

// ListCompletedSessions returns the most recently completed sessions first.
func (s *Store) ListCompletedSessions(ctx context.Context, limit int) (summaries []storage.SessionSummary, err error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	ctx, span := startSpan(ctx, "ListCompletedSessions", attribute.Int("limit", limit))
	defer func() { endSpan(span, err) }()

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
    s.id,
    s.name,
    s.completed_at,
    (SELECT COUNT(*) FROM session_players p WHERE p.session_id = s.id),
    (SELECT COUNT(*) FROM character_events e WHERE e.session_id = s.id),
    (SELECT COUNT(*) FROM character_events e WHERE e.session_id = s.id AND e.kind = ?)
FROM sessions s
ORDER BY s.completed_at DESC, s.id
LIMIT ?`, string(character.KindDeath), limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var summary storage.SessionSummary
		var completedAt int64
		if err := rows.Scan(&summary.ID, &summary.Name, &completedAt, &summary.PlayerCount, &summary.EventCount, &summary.DeathCount); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		summary.CompletedAt = fromNanos(completedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session summaries: %w", err)
	}
	return summaries, nil
}

func (s *Store) listPlayers(ctx context.Context, sessionID string) ([]storage.PlayerRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT player_id, name FROM session_players WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list session players: %w", err)
	}
	defer rows.Close()

	var players []storage.PlayerRecord
	for rows.Next() {
		var player storage.PlayerRecord
		if err := rows.Scan(&player.ID, &player.Name); err != nil {
			return nil, fmt.Errorf("scan session player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session players: %w", err)
	}
	return players, nil
}

func (s *Store) listEvents(ctx context.Context, sessionID string) ([]character.Event, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT seq, kind, player_id, player_name, identity_name, identity_type, previous_name, previous_type, occurred_at
FROM character_events
WHERE session_id = ?
ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list character events: %w", err)
	}
	defer rows.Close()

	var events []character.Event
	for rows.Next() {
		var (
			evt          character.Event
			seq          int64
			kind         string
			previousName sql.NullString
			previousType sql.NullString
			occurredAt   int64
		)
		if err := rows.Scan(
			&seq, &kind, &evt.PlayerID, &evt.PlayerName,
			&evt.Identity.Name, &evt.Identity.Type, &previousName, &previousType, &occurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan character event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Kind = character.Kind(kind)
		evt.Timestamp = fromNanos(occurredAt)
		if previousName.Valid {
			evt.PreviousIdentity = &character.Identity{Name: previousName.String, Type: previousType.String}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read character events: %w", err)
	}
	return events, nil
}
