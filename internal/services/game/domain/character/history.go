package character

import "strings"

// PlayerHistory summarizes one player's characters over a finished session.
type PlayerHistory struct {
	PlayerID   string
	PlayerName string
	// Characters lists the identities the player introduced, in order: the
	// initial identity followed by every replacement.
	Characters []Identity
	Deaths     int
	Revivals   int
	Alive      bool
	Current    Identity
}

// Summarize replays a log into per-player histories ordered by each
// player's first appearance.
func Summarize(log []Event) ([]PlayerHistory, error) {
	state, err := Reconstruct(log)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(state.Players))
	histories := make([]PlayerHistory, 0, len(state.Players))
	for _, evt := range log {
		playerID := strings.TrimSpace(evt.PlayerID)
		i, ok := index[playerID]
		if !ok {
			i = len(histories)
			index[playerID] = i
			histories = append(histories, PlayerHistory{PlayerID: playerID})
		}
		history := &histories[i]
		switch evt.Kind {
		case KindInitial, KindReplacement:
			history.Characters = append(history.Characters, evt.Identity)
		case KindDeath:
			history.Deaths++
		case KindRevival:
			history.Revivals++
		}
	}

	for i := range histories {
		player := state.Players[histories[i].PlayerID]
		histories[i].PlayerName = player.PlayerName
		histories[i].Alive = player.Phase == PhaseAlive
		histories[i].Current = player.Identity
	}
	return histories, nil
}
