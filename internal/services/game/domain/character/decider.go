package character

import (
	"fmt"
	"strings"
	"time"
)

// CommandType identifies a character lifecycle command.
type CommandType string

const (
	CommandTypeInitialize CommandType = "character.initialize"
	CommandTypeKill       CommandType = "character.kill"
	CommandTypeRevive     CommandType = "character.revive"
	CommandTypeReplace    CommandType = "character.replace"
)

// Assignment gives one player their starting identity.
type Assignment struct {
	PlayerID   string
	PlayerName string
	Identity   Identity
}

// Command is a request to change the character log.
type Command struct {
	Type     CommandType
	PlayerID string
	// Assignments is used by CommandTypeInitialize, in log order.
	Assignments []Assignment
	// Candidate is the new identity for CommandTypeReplace.
	Candidate Identity
	// ResurrectionAllowed is the session setting consulted by
	// CommandTypeRevive.
	ResurrectionAllowed bool
}

// Decision is the pure outcome of handling a command. A decision with no
// events and no error is an accepted no-op.
type Decision struct {
	Events []Event
	Err    error
}

func accept(events ...Event) Decision {
	return Decision{Events: events}
}

func reject(err error) Decision {
	return Decision{Err: err}
}

// Decide returns the decision for a command against the current state.
// Emitted events are sequenced after state.LastSeq.
func Decide(state State, cmd Command, now func() time.Time) Decision {
	if now == nil {
		now = time.Now
	}
	at := now().UTC()

	switch cmd.Type {
	case CommandTypeInitialize:
		return decideInitialize(state, cmd.Assignments, at)
	case CommandTypeKill:
		return decideKill(state, cmd.PlayerID, at)
	case CommandTypeRevive:
		return decideRevive(state, cmd.PlayerID, cmd.ResurrectionAllowed, at)
	case CommandTypeReplace:
		return decideReplace(state, cmd.PlayerID, cmd.Candidate, at)
	default:
		return reject(fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Type))
	}
}

// ValidateCandidate checks a replacement identity without changing state.
func ValidateCandidate(state State, candidate Identity) error {
	if candidate.IsZero() {
		return ErrEmptyName
	}
	if state.IsClaimed(candidate) {
		return duplicateIdentityError(candidate)
	}
	return nil
}

// decideInitialize assigns starting identities. Two players may start with
// the same identity; uniqueness only constrains later replacements.
func decideInitialize(state State, assignments []Assignment, at time.Time) Decision {
	if state.Initialized() {
		return reject(ErrAlreadyInitialized)
	}
	if len(assignments) == 0 {
		return reject(ErrNoAssignments)
	}

	seen := make(map[string]struct{}, len(assignments))
	events := make([]Event, 0, len(assignments))
	for i, assignment := range assignments {
		playerID := strings.TrimSpace(assignment.PlayerID)
		if playerID == "" {
			return reject(ErrPlayerIDRequired)
		}
		if _, ok := seen[playerID]; ok {
			return reject(fmt.Errorf("%w: %s", ErrDuplicatePlayer, playerID))
		}
		seen[playerID] = struct{}{}
		if assignment.Identity.IsZero() {
			return reject(ErrEmptyName)
		}
		events = append(events, Event{
			Seq:        state.LastSeq + uint64(i) + 1,
			PlayerID:   playerID,
			PlayerName: strings.TrimSpace(assignment.PlayerName),
			Identity:   assignment.Identity.Trimmed(),
			Kind:       KindInitial,
			Timestamp:  at,
		})
	}
	return accept(events...)
}

// decideKill is idempotent: killing a dead player is an accepted no-op.
func decideKill(state State, playerID string, at time.Time) Decision {
	player, err := lookupPlayer(state, playerID)
	if err != nil {
		return reject(err)
	}
	if player.Phase != PhaseAlive {
		return accept()
	}
	return accept(Event{
		Seq:        state.LastSeq + 1,
		PlayerID:   player.PlayerID,
		PlayerName: player.PlayerName,
		Identity:   player.Identity,
		Kind:       KindDeath,
		Timestamp:  at,
	})
}

func decideRevive(state State, playerID string, allowed bool, at time.Time) Decision {
	player, err := lookupPlayer(state, playerID)
	if err != nil {
		return reject(err)
	}
	if !allowed {
		return reject(ErrResurrectionNotAllowed)
	}
	if player.Phase != PhaseDead || player.LivingIdentity.IsZero() {
		return reject(notDeadError(player))
	}
	return accept(Event{
		Seq:        state.LastSeq + 1,
		PlayerID:   player.PlayerID,
		PlayerName: player.PlayerName,
		Identity:   player.LivingIdentity,
		Kind:       KindRevival,
		Timestamp:  at,
	})
}

func decideReplace(state State, playerID string, candidate Identity, at time.Time) Decision {
	player, err := lookupPlayer(state, playerID)
	if err != nil {
		return reject(err)
	}
	if player.Phase != PhaseDead {
		return reject(notDeadError(player))
	}
	if err := ValidateCandidate(state, candidate); err != nil {
		return reject(err)
	}
	previous := player.Identity
	return accept(Event{
		Seq:              state.LastSeq + 1,
		PlayerID:         player.PlayerID,
		PlayerName:       player.PlayerName,
		Identity:         candidate.Trimmed(),
		Kind:             KindReplacement,
		Timestamp:        at,
		PreviousIdentity: &previous,
	})
}

func lookupPlayer(state State, playerID string) (PlayerState, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerState{}, ErrPlayerIDRequired
	}
	player, ok := state.Players[playerID]
	if !ok {
		return PlayerState{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return player, nil
}
