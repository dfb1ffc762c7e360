// Package session hosts live character sessions.
//
// A Manager owns one character engine per running session and serializes
// every write to it. Callers pass the version they last observed; a write
// against a newer log fails with ErrVersionConflict instead of silently
// interleaving with another writer. Completed sessions are handed to a
// storage.SessionStore and dropped from memory.
package session
