package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                         = "UNKNOWN"
	CodeCharacterEmptyName              = "CHARACTER_EMPTY_NAME"
	CodeCharacterDuplicateIdentity      = "CHARACTER_DUPLICATE_IDENTITY"
	CodeCharacterNotDead                = "CHARACTER_NOT_DEAD"
	CodeCharacterResurrectionNotAllowed = "CHARACTER_RESURRECTION_NOT_ALLOWED"
	CodeSessionNameEmpty                = "SESSION_NAME_EMPTY"
	CodeSessionRosterEmpty              = "SESSION_ROSTER_EMPTY"
	CodeSessionVersionConflict          = "SESSION_VERSION_CONFLICT"
	CodeNotFound                        = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeUnknown:                         "Something went wrong. Please try again.",
	CodeCharacterEmptyName:              "Character name is required.",
	CodeCharacterDuplicateIdentity:      `This character combination is already used: {{ .Name | quote }}{{ with .Type }} ({{ . }}){{ end }}.`,
	CodeCharacterNotDead:                "{{if .Player}}{{.Player}}'s{{else}}This{{end}} character is not dead.",
	CodeCharacterResurrectionNotAllowed: "Resurrection is not allowed in this session.",
	CodeSessionNameEmpty:                "Session name is required.",
	CodeSessionRosterEmpty:              "A session needs at least one player.",
	CodeSessionVersionConflict:          "This session was changed somewhere else. Reload and try again.",
	CodeNotFound:                        "Not found.",
}
