package history

// Report message keys, resolved through the embedded UI catalog.
const (
	msgSessionHeader = "history.session_header"
	msgSessionTotals = "history.session_totals"
	msgPlayerLine    = "history.player_line"
	msgPlayerChars   = "history.player_characters"
	msgPlayerCounts  = "history.player_counts"
	msgListLine      = "history.list_line"
	msgListEmpty     = "history.list_empty"
	msgStatusAlive   = "history.status_alive"
	msgStatusDead    = "history.status_dead"
	charactersJoiner = " → "
)
