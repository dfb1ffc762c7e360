package scenario

import (
	"context"

	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
	"github.com/louisbranch/scorekeeper/internal/services/game/session"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "session":
		return r.runSessionStep(state, step)
	case "player":
		return r.runPlayerStep(state, step)
	case "start":
		return r.runStartStep(ctx, state, step)
	case "kill":
		return r.runApplyStep(ctx, state, step, session.KillOp{PlayerID: requiredString(step.Args, "player")})
	case "revive":
		return r.runApplyStep(ctx, state, step, session.ReviveOp{PlayerID: requiredString(step.Args, "player")})
	case "replace":
		return r.runApplyStep(ctx, state, step, session.ReplaceOp{
			PlayerID: requiredString(step.Args, "player"),
			Identity: identityArg(step.Args),
		})
	case "propose":
		return r.runProposeStep(ctx, state, step)
	case "complete":
		return r.runCompleteStep(ctx, state, step)
	case "abandon":
		return r.runAbandonStep(ctx, state, step)
	case "expect_character":
		return r.runExpectCharacterStep(state, step)
	case "expect_dead":
		return r.runExpectPhaseStep(state, step, character.PhaseDead)
	case "expect_alive":
		return r.runExpectPhaseStep(state, step, character.PhaseAlive)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runSessionStep(state *scenarioState, step Step) error {
	if state.sessionID != "" {
		return r.failf("session settings must come before start")
	}
	state.sessionName = optionalString(step.Args, "name", state.sessionName)
	state.resurrectionAllowed = optionalBool(step.Args, "resurrection", false)
	return nil
}

func (r *Runner) runPlayerStep(state *scenarioState, step Step) error {
	if state.sessionID != "" {
		return r.failf("players must be added before start")
	}
	playerID := requiredString(step.Args, "id")
	state.players = append(state.players, session.PlayerInput{
		ID:   playerID,
		Name: optionalString(step.Args, "name", playerID),
		Identity: character.Identity{
			Name: stringArg(step.Args, "character"),
			Type: stringArg(step.Args, "type"),
		},
	})
	return nil
}

func (r *Runner) runStartStep(ctx context.Context, state *scenarioState, step Step) error {
	if state.sessionID != "" {
		return r.failf("session already started")
	}
	snap, err := r.host.Start(ctx, session.StartInput{
		Name:                state.sessionName,
		ResurrectionAllowed: state.resurrectionAllowed,
		Players:             state.players,
	})
	if err == nil {
		state.sessionID = snap.ID
		state.version = snap.Version
		r.logf("session %s started at version %d", snap.ID, snap.Version)
	}
	return r.expectOutcome(step, err)
}

func (r *Runner) runApplyStep(ctx context.Context, state *scenarioState, step Step, op session.Op) error {
	if err := r.ensureSession(state); err != nil {
		return err
	}
	expectedVersion := optionalInt(step.Args, "version", state.version)
	snap, err := r.host.Apply(ctx, state.sessionID, expectedVersion, op)
	if err == nil {
		state.version = snap.Version
	}
	return r.expectOutcome(step, err)
}

func (r *Runner) runProposeStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureSession(state); err != nil {
		return err
	}
	err := r.host.Propose(ctx, state.sessionID, identityArg(step.Args))
	return r.expectOutcome(step, err)
}

func (r *Runner) runCompleteStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureSession(state); err != nil {
		return err
	}
	record, err := r.host.Complete(ctx, state.sessionID, r.clock())
	if err == nil {
		state.finished = true
		r.completed = append(r.completed, record)
		r.logf("session %s completed with %d events", record.ID, len(record.Events))
	}
	return r.expectOutcome(step, err)
}

func (r *Runner) runAbandonStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureSession(state); err != nil {
		return err
	}
	err := r.host.Abandon(ctx, state.sessionID)
	if err == nil {
		state.finished = true
	}
	return r.expectOutcome(step, err)
}

func (r *Runner) runExpectCharacterStep(state *scenarioState, step Step) error {
	snap, err := r.snapshot(state)
	if err != nil {
		return err
	}
	playerID := requiredString(step.Args, "player")
	want := identityArg(step.Args)
	current, ok := character.CurrentIdentity(snap.State, playerID)
	if !ok {
		return r.assertf("player %s has no character, want %s", playerID, want)
	}
	if !current.Same(want) {
		return r.assertf("player %s character = %s, want %s", playerID, current, want)
	}
	return nil
}

func (r *Runner) runExpectPhaseStep(state *scenarioState, step Step, want character.Phase) error {
	snap, err := r.snapshot(state)
	if err != nil {
		return err
	}
	playerID := requiredString(step.Args, "player")
	player, ok := snap.State.Players[playerID]
	if !ok {
		return r.failf("unknown player %q", playerID)
	}
	if player.Phase != want {
		return r.assertf("player %s phase = %s, want %s", playerID, player.Phase, want)
	}
	return nil
}
