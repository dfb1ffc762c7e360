package session

import (
	"github.com/louisbranch/scorekeeper/internal/services/game/domain/character"
)

// Op is a single write against a live session's character engine.
type Op interface {
	// Name identifies the operation in traces and logs.
	Name() string
	apply(engine *character.Engine, resurrectionAllowed bool) (character.State, error)
}

// KillOp marks a player's character dead.
type KillOp struct {
	PlayerID string
}

// Name returns the operation name.
func (KillOp) Name() string { return "kill" }

func (op KillOp) apply(engine *character.Engine, _ bool) (character.State, error) {
	return engine.MarkDeath(op.PlayerID)
}

// ReviveOp restores a dead player's last living character.
type ReviveOp struct {
	PlayerID string
}

// Name returns the operation name.
func (ReviveOp) Name() string { return "revive" }

func (op ReviveOp) apply(engine *character.Engine, resurrectionAllowed bool) (character.State, error) {
	return engine.Revive(op.PlayerID, resurrectionAllowed)
}

// ReplaceOp gives a dead player a new character.
type ReplaceOp struct {
	PlayerID string
	Identity character.Identity
}

// Name returns the operation name.
func (ReplaceOp) Name() string { return "replace" }

func (op ReplaceOp) apply(engine *character.Engine, _ bool) (character.State, error) {
	return engine.ConfirmReplacement(op.PlayerID, op.Identity)
}
