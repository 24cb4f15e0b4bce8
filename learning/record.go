package learning

import (
	"fmt"
	"math"

	"morris/game"
)

// StateKey is the compact form of a board: one word per square.
type StateKey [3]uint16

func (k StateKey) String() string {
	return fmt.Sprintf("%04x:%04x:%04x", k[0], k[1], k[2])
}

// Step is the change a player made on the board.
// From is the point a piece left (moved or removed), To the point a piece arrived at.
type Step struct {
	From game.Cell
	To   game.Cell
}

// NoStep is returned to spectators, who never propose steps.
var NoStep = Step{From: game.NoCell, To: game.NoCell}

func (s Step) String() string {
	return fmt.Sprintf("%s>%s", s.From, s.To)
}

// StepFor returns the canonical step of an action. Only the points the action
// uses are kept, so equal actions always register the same step.
func StepFor(a game.Action) Step {
	switch a.Type {
	case game.PlaceAction:
		return Step{From: game.NoCell, To: a.To}
	case game.MoveAction:
		return Step{From: a.From, To: a.To}
	case game.RemoveAction:
		return Step{From: a.From, To: game.NoCell}
	default:
		return NoStep
	}
}

// Action interprets the step in the given phase: placing uses To, removing
// uses From and moving uses both.
func (s Step) Action(p game.Phase) (game.Action, bool) {
	actionType, ok := game.ActionForPhase(p)
	if !ok {
		return game.Action{}, false
	}
	switch actionType {
	case game.PlaceAction:
		return game.Action{Type: actionType, From: game.NoCell, To: s.To}, s.To.Valid()
	case game.RemoveAction:
		return game.Action{Type: actionType, From: s.From, To: game.NoCell}, s.From.Valid()
	default:
		return game.Action{Type: actionType, From: s.From, To: s.To}, s.From.Valid() && s.To.Valid()
	}
}

// Record is the learned outcome of playing Step in the position Key.
type Record struct {
	Key    StateKey
	Step   Step
	Wins   uint16
	Losses uint16
}

// Balance is wins minus losses.
func (r Record) Balance() int {
	return int(r.Wins) - int(r.Losses)
}

func (r *Record) addResult(winner bool) {
	if winner {
		r.Wins = saturatingAdd(r.Wins, 1)
	} else {
		r.Losses = saturatingAdd(r.Losses, 1)
	}
}

// counters are persisted as 16 bits
func saturatingAdd(a, b uint16) uint16 {
	if a > math.MaxUint16-b {
		return math.MaxUint16
	}
	return a + b
}

type entry struct {
	Key  StateKey
	Step Step
}
