package game

import "fmt"

// ActionType represents the type of action a player can perform.
type ActionType int

const (
	PlaceAction ActionType = iota
	MoveAction
	RemoveAction
)

func (t ActionType) String() string {
	switch t {
	case PlaceAction:
		return "place"
	case MoveAction:
		return "move"
	case RemoveAction:
		return "remove"
	default:
		return "unknown"
	}
}

// Action represents one mutating call on the game state.
// Place and Remove only use To and From respectively.
type Action struct {
	Type ActionType
	From Cell
	To   Cell
}

func (a Action) String() string {
	switch a.Type {
	case PlaceAction:
		return fmt.Sprintf("place %s", a.To)
	case MoveAction:
		return fmt.Sprintf("move %s-%s", a.From, a.To)
	case RemoveAction:
		return fmt.Sprintf("remove %s", a.From)
	default:
		return "unknown action"
	}
}

// ActionForPhase returns the action type that is legal in the given phase.
func ActionForPhase(p Phase) (ActionType, bool) {
	switch p {
	case PlacePhase:
		return PlaceAction, true
	case MovePhase:
		return MoveAction, true
	case RemovePhase:
		return RemoveAction, true
	default:
		return 0, false
	}
}
