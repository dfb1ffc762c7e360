package scenario

import (
	"github.com/louisbranch/scorekeeper/internal/services/game/session"
)

type scenarioState struct {
	sessionName         string
	resurrectionAllowed bool
	players             []session.PlayerInput
	sessionID           string
	version             int
	finished            bool
}
