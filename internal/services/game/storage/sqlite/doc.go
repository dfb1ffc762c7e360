// Package sqlite implements completed-session persistence on SQLite.
//
// Character events are stored one row per event keyed by (session, seq) so a
// stored log reads back in exactly the order the engine appended it.
package sqlite
