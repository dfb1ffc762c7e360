// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Character lifecycle errors
	CodeCharacterEmptyName              Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterDuplicateIdentity      Code = "CHARACTER_DUPLICATE_IDENTITY"
	CodeCharacterNotDead                Code = "CHARACTER_NOT_DEAD"
	CodeCharacterResurrectionNotAllowed Code = "CHARACTER_RESURRECTION_NOT_ALLOWED"

	// Session errors
	CodeSessionNameEmpty       Code = "SESSION_NAME_EMPTY"
	CodeSessionRosterEmpty     Code = "SESSION_ROSTER_EMPTY"
	CodeSessionVersionConflict Code = "SESSION_VERSION_CONFLICT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Category groups codes by how a host should surface them.
type Category string

const (
	CategoryInvalidArgument    Category = "invalid_argument"
	CategoryFailedPrecondition Category = "failed_precondition"
	CategoryAlreadyExists      Category = "already_exists"
	CategoryNotFound           Category = "not_found"
	CategoryAborted            Category = "aborted"
	CategoryInternal           Category = "internal"
)

// Category maps domain codes to host-facing categories.
func (c Code) Category() Category {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeCharacterEmptyName,
		CodeSessionNameEmpty,
		CodeSessionRosterEmpty:
		return CategoryInvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeCharacterNotDead,
		CodeCharacterResurrectionNotAllowed:
		return CategoryFailedPrecondition

	// AlreadyExists - unique resource constraint
	case CodeCharacterDuplicateIdentity:
		return CategoryAlreadyExists

	// Aborted - concurrent writer lost the race
	case CodeSessionVersionConflict:
		return CategoryAborted

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return CategoryNotFound

	default:
		return CategoryInternal
	}
}
