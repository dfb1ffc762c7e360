package session

import (
	"strconv"

	apperrors "github.com/louisbranch/scorekeeper/internal/platform/errors"
)

var (
	// ErrNameRequired indicates a session was started without a name.
	ErrNameRequired = apperrors.New(apperrors.CodeSessionNameEmpty, "session name is required")
	// ErrRosterEmpty indicates a session was started without players.
	ErrRosterEmpty = apperrors.New(apperrors.CodeSessionRosterEmpty, "session roster is empty")
	// ErrVersionConflict indicates the caller wrote against a stale log version.
	ErrVersionConflict = apperrors.New(apperrors.CodeSessionVersionConflict, "session version conflict")
	// ErrSessionNotFound indicates no live session has the requested id.
	ErrSessionNotFound = apperrors.New(apperrors.CodeNotFound, "session not found")
)

func versionConflict(expected, actual int) error {
	return apperrors.WithMetadata(
		apperrors.CodeSessionVersionConflict,
		"session version conflict",
		map[string]string{"Expected": strconv.Itoa(expected), "Actual": strconv.Itoa(actual)},
	)
}
