// Package character tracks which character identity each player controls
// during one cooperative session.
//
// The package is event sourced: an append-only log of initial, death,
// replacement and revival events is the only durable state, and the
// projection (active identities, dead flags, claimed identities) is always
// derived by folding that log. Commands are decided purely against the
// current projection so the same rules apply while a session is live and
// when a finished session is replayed for history views.
//
// Identities are claimed session-wide: once a (name, type) pair has been
// used by any player it cannot be introduced again through a replacement.
// Initial assignments are not cross-checked against each other.
package character
