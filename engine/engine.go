package engine

import (
	"errors"

	"morris/experiments/metrics"
	"morris/game"
)

var ErrNoLegalAction = errors.New("no legal action")

// Player chooses the actions of one side of a game.
type Player interface {
	// Begin attaches the player to a new game in which it plays side.
	Begin(gs *game.GameState, side game.Player) error
	// Choose returns a legal action for the current position. It must not mutate gs.
	Choose(gs *game.GameState) (game.Action, metrics.ChoiceMetric, error)
	// Finish reports the result, NoPlayer for a draw.
	Finish(winner game.Player)
}
