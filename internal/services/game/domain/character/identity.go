package character

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keySeparator joins normalized name and type so ("a b", "") and ("a", "b")
// never share a key.
const keySeparator = "\x1f"

// Identity is a character's in-fiction persona.
type Identity struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Trimmed returns the identity with surrounding whitespace removed, keeping
// the caller's casing for display.
func (i Identity) Trimmed() Identity {
	return Identity{
		Name: strings.TrimSpace(i.Name),
		Type: strings.TrimSpace(i.Type),
	}
}

// Normalized returns the comparison form: trimmed and lower-cased.
func (i Identity) Normalized() Identity {
	name, kind, _ := strings.Cut(i.Key(), keySeparator)
	return Identity{Name: name, Type: kind}
}

// Key returns the normalized identity key used for claims. Casers are not
// safe for concurrent use, so each call lowers the joined key with its own.
func (i Identity) Key() string {
	joined := strings.TrimSpace(i.Name) + keySeparator + strings.TrimSpace(i.Type)
	return cases.Lower(language.Und).String(joined)
}

// Same reports whether two identities normalize to the same key.
func (i Identity) Same(other Identity) bool {
	return i.Key() == other.Key()
}

// IsZero reports whether the identity has no name.
func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.Name) == ""
}

// String renders the identity as "Name (Type)" or just "Name".
func (i Identity) String() string {
	trimmed := i.Trimmed()
	if trimmed.Type == "" {
		return trimmed.Name
	}
	return trimmed.Name + " (" + trimmed.Type + ")"
}
