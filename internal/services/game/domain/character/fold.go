package character

import (
	"fmt"
	"strings"
)

// Fold applies one event to state and returns the next state. The input
// state is never mutated, so Fold(Reconstruct(log), e) and
// Reconstruct(append(log, e)) always agree.
func Fold(state State, evt Event) (State, error) {
	next := state.Clone()
	if err := apply(&next, evt); err != nil {
		return state, err
	}
	return next, nil
}

// Reconstruct folds a full log from an empty state.
func Reconstruct(log []Event) (State, error) {
	state := NewState()
	for _, evt := range log {
		if err := apply(&state, evt); err != nil {
			return State{}, fmt.Errorf("reconstruct event %d: %w", evt.Seq, err)
		}
	}
	return state, nil
}

// apply folds evt into state in place. Callers own state.
func apply(state *State, evt Event) error {
	expected := state.LastSeq + 1
	if evt.Seq != expected {
		return fmt.Errorf("%w: expected %d got %d", ErrSequenceGap, expected, evt.Seq)
	}
	playerID := strings.TrimSpace(evt.PlayerID)
	if playerID == "" {
		return ErrPlayerIDRequired
	}

	player, known := state.Players[playerID]
	if !known {
		player = PlayerState{PlayerID: playerID}
	}
	if evt.PlayerName != "" {
		player.PlayerName = evt.PlayerName
	}

	switch evt.Kind {
	case KindInitial:
		if player.Phase != PhaseUnassigned {
			return transitionError(evt, player)
		}
		becomeAlive(state, &player, evt.Identity)
		state.Claimed[evt.Identity.Key()] = struct{}{}
	case KindDeath:
		if player.Phase != PhaseAlive {
			return transitionError(evt, player)
		}
		if !evt.Identity.Same(player.Identity) {
			return identityMismatchError(evt, player.Identity)
		}
		player.Phase = PhaseDead
		player.Identity = evt.Identity
		player.Deaths++
		delete(state.ActiveByPlayer, playerID)
		state.DeadByPlayer[playerID] = true
	case KindReplacement:
		if player.Phase != PhaseDead {
			return transitionError(evt, player)
		}
		becomeAlive(state, &player, evt.Identity)
		state.Claimed[evt.Identity.Key()] = struct{}{}
	case KindRevival:
		if player.Phase != PhaseDead {
			return transitionError(evt, player)
		}
		// Revival restores the last living identity; it never introduces one.
		if !evt.Identity.Same(player.LivingIdentity) {
			return identityMismatchError(evt, player.LivingIdentity)
		}
		becomeAlive(state, &player, evt.Identity)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, evt.Kind)
	}

	state.Players[playerID] = player
	state.LastSeq = evt.Seq
	return nil
}

func becomeAlive(state *State, player *PlayerState, identity Identity) {
	player.Phase = PhaseAlive
	player.Identity = identity
	player.LivingIdentity = identity
	state.ActiveByPlayer[player.PlayerID] = identity
	state.DeadByPlayer[player.PlayerID] = false
}

func transitionError(evt Event, player PlayerState) error {
	phase := player.Phase
	if phase == PhaseUnassigned {
		phase = "unassigned"
	}
	return fmt.Errorf("%w: %s for %s player %s", ErrInvalidTransition, evt.Kind, phase, player.PlayerID)
}

func identityMismatchError(evt Event, want Identity) error {
	return fmt.Errorf("%w: %s for player %s carries %q, want %q", ErrInvalidTransition, evt.Kind, strings.TrimSpace(evt.PlayerID), evt.Identity.String(), want.String())
}
