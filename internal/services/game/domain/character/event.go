package character

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies a character log entry.
type Kind string

const (
	// KindInitial assigns a player's starting identity.
	KindInitial Kind = "initial"
	// KindDeath records the player's current identity dying.
	KindDeath Kind = "death"
	// KindReplacement gives a dead player a new identity.
	KindReplacement Kind = "replacement"
	// KindRevival restores a dead player's last living identity.
	KindRevival Kind = "revival"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindInitial, KindDeath, KindReplacement, KindRevival:
		return true
	default:
		return false
	}
}

// Claims reports whether events of this kind introduce their identity into
// the session's claimed set.
func (k Kind) Claims() bool {
	return k == KindInitial || k == KindReplacement
}

// Event is one immutable entry in a session's character log.
type Event struct {
	// Seq is the 1-based position of the event in the log.
	Seq        uint64 `json:"seq"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name,omitempty"`
	// Identity is the identity the event is about: the assigned identity for
	// initial/replacement/revival, and the dying identity for death.
	Identity  Identity  `json:"identity"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	// PreviousIdentity is set on replacement events only.
	PreviousIdentity *Identity `json:"previous_identity,omitempty"`
}

// MarshalLog encodes a log for verbatim persistence.
func MarshalLog(log []Event) ([]byte, error) {
	if log == nil {
		log = []Event{}
	}
	data, err := json.Marshal(log)
	if err != nil {
		return nil, fmt.Errorf("marshal character log: %w", err)
	}
	return data, nil
}

// UnmarshalLog decodes a log produced by MarshalLog.
func UnmarshalLog(data []byte) ([]Event, error) {
	var log []Event
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("unmarshal character log: %w", err)
	}
	return log, nil
}
