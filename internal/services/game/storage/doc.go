// Package storage defines persistence contracts for finished sessions.
//
// Live sessions never touch storage: the character log is written once, when
// the host completes a session, and read back for history views.
package storage
