package game

import (
	"fmt"

	"morris/meta"
)

// LegalActions returns all legal actions for the current player.
func (gs *GameState) LegalActions() []Action {
	switch gs.phase {
	case PlacePhase:
		if gs.deck[gs.current.index()] == 0 {
			return nil
		}
		var actions []Action
		for c, piece := range gs.board {
			if piece == Empty {
				actions = append(actions, Action{Type: PlaceAction, From: NoCell, To: Cell(c)})
			}
		}
		return actions
	case MovePhase:
		return gs.moveActions()
	case RemovePhase:
		var actions []Action
		for c := range gs.board {
			if gs.board[c] == Opponent(gs.current) && gs.checkRemove(Cell(c)) == nil {
				actions = append(actions, Action{Type: RemoveAction, From: Cell(c), To: NoCell})
			}
		}
		return actions
	default:
		return nil
	}
}

func (gs *GameState) moveActions() []Action {
	var actions []Action
	flying := gs.pieces[gs.current.index()] <= meta.FLYING_THRESHOLD
	empty := gs.board.Cells(Empty)

	for _, from := range gs.board.Cells(gs.current) {
		targets := gs.topology.Adjacent(from)
		if flying {
			targets = empty
		}
		for _, to := range targets {
			if gs.board[to] == Empty {
				actions = append(actions, Action{Type: MoveAction, From: from, To: to})
			}
		}
	}
	return actions
}

// Apply performs the action and advances the phase when it succeeded.
func (gs *GameState) Apply(a Action) error {
	var err error
	switch a.Type {
	case PlaceAction:
		err = gs.Place(a.To)
	case MoveAction:
		if a.To == NoCell {
			return fmt.Errorf("move %s-%s: %w", a.From, a.To, ErrInvalidCell)
		}
		err = gs.Move(a.From, a.To)
	case RemoveAction:
		err = gs.Remove(a.From)
	default:
		return ErrUnknownAction
	}
	if err != nil {
		return err
	}
	gs.AdvancePhase()
	return nil
}

// IsLegal checks an action against the current state without changing it.
func (gs *GameState) IsLegal(a Action) bool {
	return gs.Clone().Apply(a) == nil
}
