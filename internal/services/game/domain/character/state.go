package character

// Phase is a player's position in the character lifecycle.
type Phase string

const (
	PhaseUnassigned Phase = ""
	PhaseAlive      Phase = "alive"
	PhaseDead       Phase = "dead"
)

// PlayerState is the folded lifecycle of one player.
type PlayerState struct {
	PlayerID   string
	PlayerName string
	Phase      Phase
	// Identity is the identity of the player's most recent event.
	Identity Identity
	// LivingIdentity is the identity of the player's most recent non-death
	// event; revival restores it.
	LivingIdentity Identity
	Deaths         int
}

// State is the projection derived from a character log. It is never
// authoritative: Reconstruct over the log always yields it again.
type State struct {
	// LastSeq is the sequence of the last folded event.
	LastSeq uint64
	// ActiveByPlayer holds the identity of every player controlling a living
	// character.
	ActiveByPlayer map[string]Identity
	// DeadByPlayer is true for players whose latest event is a death.
	DeadByPlayer map[string]bool
	// Claimed holds the key of every identity introduced by an initial or
	// replacement event, for any player.
	Claimed map[string]struct{}
	Players map[string]PlayerState
}

// NewState returns an empty projection.
func NewState() State {
	return State{
		ActiveByPlayer: map[string]Identity{},
		DeadByPlayer:   map[string]bool{},
		Claimed:        map[string]struct{}{},
		Players:        map[string]PlayerState{},
	}
}

// Clone returns a deep copy so callers cannot mutate engine state.
func (s State) Clone() State {
	cloned := State{
		LastSeq:        s.LastSeq,
		ActiveByPlayer: make(map[string]Identity, len(s.ActiveByPlayer)),
		DeadByPlayer:   make(map[string]bool, len(s.DeadByPlayer)),
		Claimed:        make(map[string]struct{}, len(s.Claimed)),
		Players:        make(map[string]PlayerState, len(s.Players)),
	}
	for k, v := range s.ActiveByPlayer {
		cloned.ActiveByPlayer[k] = v
	}
	for k, v := range s.DeadByPlayer {
		cloned.DeadByPlayer[k] = v
	}
	for k := range s.Claimed {
		cloned.Claimed[k] = struct{}{}
	}
	for k, v := range s.Players {
		cloned.Players[k] = v
	}
	return cloned
}

// Initialized reports whether any event has been folded.
func (s State) Initialized() bool {
	return s.LastSeq > 0
}

// IsClaimed reports whether identity has been introduced in this session.
func (s State) IsClaimed(identity Identity) bool {
	_, ok := s.Claimed[identity.Key()]
	return ok
}

// IsDead reports whether the player's latest event is a death.
func (s State) IsDead(playerID string) bool {
	return s.DeadByPlayer[playerID]
}

// CurrentIdentity returns the player's active identity, else the identity of
// their most recent event (a dead character, for display), else false when
// the player never appeared in the log.
func CurrentIdentity(s State, playerID string) (Identity, bool) {
	if identity, ok := s.ActiveByPlayer[playerID]; ok {
		return identity, true
	}
	if player, ok := s.Players[playerID]; ok {
		return player.Identity, true
	}
	return Identity{}, false
}
