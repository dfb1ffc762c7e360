package character

import (
	"fmt"
	"time"
)

// Engine owns the character log of one live session. It is not safe for
// concurrent use; hosts serialize calls per session.
type Engine struct {
	log   []Event
	state State
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine returns an engine with an empty log.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{state: NewState(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Load rebuilds an engine from a persisted log.
func Load(log []Event, opts ...Option) (*Engine, error) {
	state, err := Reconstruct(log)
	if err != nil {
		return nil, err
	}
	e := NewEngine(opts...)
	e.log = append([]Event(nil), log...)
	e.state = state
	return e, nil
}

// Initialize appends an initial event per assignment. It must be the first
// call on the engine.
func (e *Engine) Initialize(assignments []Assignment) (State, error) {
	return e.execute(Command{Type: CommandTypeInitialize, Assignments: assignments})
}

// MarkDeath kills the player's active character. Killing a dead player is a
// no-op.
func (e *Engine) MarkDeath(playerID string) (State, error) {
	return e.execute(Command{Type: CommandTypeKill, PlayerID: playerID})
}

// Revive restores a dead player's last living identity.
func (e *Engine) Revive(playerID string, resurrectionAllowed bool) (State, error) {
	return e.execute(Command{
		Type:                CommandTypeRevive,
		PlayerID:            playerID,
		ResurrectionAllowed: resurrectionAllowed,
	})
}

// ProposeReplacement validates a candidate identity without changing the log.
func (e *Engine) ProposeReplacement(candidate Identity) error {
	return ValidateCandidate(e.state, candidate)
}

// ConfirmReplacement gives a dead player a new, unclaimed identity.
func (e *Engine) ConfirmReplacement(playerID string, candidate Identity) (State, error) {
	return e.execute(Command{Type: CommandTypeReplace, PlayerID: playerID, Candidate: candidate})
}

// CurrentIdentity returns the player's identity for display.
func (e *Engine) CurrentIdentity(playerID string) (Identity, bool) {
	return CurrentIdentity(e.state, playerID)
}

// State returns a copy of the current projection.
func (e *Engine) State() State {
	return e.state.Clone()
}

// Log returns a copy of the event log.
func (e *Engine) Log() []Event {
	return append([]Event(nil), e.log...)
}

// Version returns the number of events in the log.
func (e *Engine) Version() int {
	return len(e.log)
}

func (e *Engine) execute(cmd Command) (State, error) {
	decision := Decide(e.state, cmd, e.now)
	if decision.Err != nil {
		return e.State(), decision.Err
	}

	next := e.state
	for _, evt := range decision.Events {
		folded, err := Fold(next, evt)
		if err != nil {
			return e.State(), fmt.Errorf("fold %s: %w", evt.Kind, err)
		}
		next = folded
	}
	e.log = append(e.log, decision.Events...)
	e.state = next
	return e.State(), nil
}
