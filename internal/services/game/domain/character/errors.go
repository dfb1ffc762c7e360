package character

import (
	"errors"

	apperrors "github.com/louisbranch/scorekeeper/internal/platform/errors"
)

// Domain failures. Hosts match them with errors.Is; the returned values may
// carry extra metadata but always share these codes.
var (
	// ErrEmptyName rejects an identity without a name.
	ErrEmptyName = apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	// ErrDuplicateIdentity rejects an identity already claimed in the session.
	ErrDuplicateIdentity = apperrors.New(apperrors.CodeCharacterDuplicateIdentity, "character identity already claimed")
	// ErrNotDead rejects revive and replace for players who are not dead.
	ErrNotDead = apperrors.New(apperrors.CodeCharacterNotDead, "player character is not dead")
	// ErrResurrectionNotAllowed rejects revive when the session disallows it.
	ErrResurrectionNotAllowed = apperrors.New(apperrors.CodeCharacterResurrectionNotAllowed, "resurrection is not allowed")
)

// Misuse errors. These indicate a host bug rather than a user mistake.
var (
	ErrAlreadyInitialized = errors.New("character log already initialized")
	ErrNoAssignments      = errors.New("at least one assignment is required")
	ErrPlayerIDRequired   = errors.New("player id is required")
	ErrDuplicatePlayer    = errors.New("player assigned twice")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrUnknownCommand     = errors.New("unknown character command")
)

// Log integrity errors returned while folding.
var (
	ErrSequenceGap       = errors.New("character log sequence gap")
	ErrInvalidTransition = errors.New("invalid character transition")
	ErrUnknownKind       = errors.New("unknown character event kind")
)

// IsDomainError reports whether err is a recoverable domain failure as
// opposed to misuse or log corruption.
func IsDomainError(err error) bool {
	_, ok := apperrors.As(err)
	return ok
}

func duplicateIdentityError(candidate Identity) error {
	trimmed := candidate.Trimmed()
	return apperrors.WithMetadata(
		apperrors.CodeCharacterDuplicateIdentity,
		"character identity already claimed: "+trimmed.String(),
		map[string]string{"Name": trimmed.Name, "Type": trimmed.Type},
	)
}

func notDeadError(player PlayerState) error {
	name := player.PlayerName
	if name == "" {
		name = player.PlayerID
	}
	return apperrors.WithMetadata(
		apperrors.CodeCharacterNotDead,
		"player character is not dead: "+player.PlayerID,
		map[string]string{"Player": name},
	)
}
