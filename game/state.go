package game

import (
	"errors"
	"fmt"

	"morris/meta"
)

var (
	ErrWrongPhase        = errors.New("action not allowed in this phase")
	ErrInvalidCell       = errors.New("point is not on the field")
	ErrOccupied          = errors.New("point is not empty")
	ErrEmptyDeck         = errors.New("no pieces left to place")
	ErrNotOwnPiece       = errors.New("point does not hold a piece of the current player")
	ErrNotOpponentPiece  = errors.New("point does not hold a piece of the opponent")
	ErrSameCell          = errors.New("cannot move a piece onto itself")
	ErrNotAdjacent       = errors.New("points are not adjacent")
	ErrProtectedByMill   = errors.New("piece is part of a mill while others are not")
	ErrUnknownAction     = errors.New("unknown action")
	errNoPlayersAssigned = errors.New("starting player must be Player1 or Player2")
)

// GameState owns the board and the per-player counters of one game.
// All mutating methods check their preconditions first and leave the state
// untouched when they fail.
type GameState struct {
	topology *Topology
	board    Board
	phase    Phase
	current  Player
	deck     [meta.NUM_OF_PLAYERS]int
	pieces   [meta.NUM_OF_PLAYERS]int
	mills    [meta.NUM_OF_PLAYERS]millSet // Closed mills as of the player's last update
	pending  int                          // Mills the current player still has to resolve by removing
}

// millSet is a bitset over the indices of the topology's lines.
type millSet uint32

func (s millSet) count() int {
	n := 0
	for ; s != 0; s &= s - 1 {
		n++
	}
	return n
}

type Option func(gs *GameState) error

// WithStartingPlayer selects the player who places first.
func WithStartingPlayer(p Player) Option {
	return func(gs *GameState) error {
		if p != Player1 && p != Player2 {
			return errNoPlayersAssigned
		}
		gs.current = p
		return nil
	}
}

// WithBoard starts the game from a given position. Piece counters follow the
// board, decks are reduced by the pieces already on it.
func WithBoard(b Board) Option {
	return func(gs *GameState) error {
		gs.board = b
		for _, p := range []Player{Player1, Player2} {
			gs.pieces[p.index()] = b.Count(p)
			gs.deck[p.index()] = max(0, meta.NUM_OF_PIECES-gs.pieces[p.index()])
			gs.mills[p.index()] = gs.closedMills(p)
		}
		return nil
	}
}

// WithDecks overrides the number of pieces left to place for both players.
func WithDecks(deck1, deck2 int) Option {
	return func(gs *GameState) error {
		if deck1 < 0 || deck2 < 0 || deck1 > meta.NUM_OF_PIECES || deck2 > meta.NUM_OF_PIECES {
			return fmt.Errorf("deck sizes %d/%d out of range", deck1, deck2)
		}
		gs.deck[Player1.index()] = deck1
		gs.deck[Player2.index()] = deck2
		return nil
	}
}

// WithPhase sets the phase the game resumes in.
func WithPhase(p Phase) Option {
	return func(gs *GameState) error {
		if p == InitPhase {
			return fmt.Errorf("cannot resume in phase %s", p)
		}
		gs.phase = p
		return nil
	}
}

// WithPendingMills sets how many removals the current player still owes,
// used together with WithPhase(RemovePhase).
func WithPendingMills(n int) Option {
	return func(gs *GameState) error {
		gs.pending = n
		return nil
	}
}

// NewGameState initializes and returns a new game, Player1 placing first on an empty field.
func NewGameState(opts ...Option) (*GameState, error) {
	gs := &GameState{
		topology: Standard(),
		phase:    InitPhase,
		current:  Player1,
	}
	for i := range gs.deck {
		gs.deck[i] = meta.NUM_OF_PIECES
	}
	for _, opt := range opts {
		if err := opt(gs); err != nil {
			return nil, err
		}
	}
	if gs.phase == InitPhase {
		gs.phase = PlacePhase
	}
	return gs, nil
}

// Clone returns an independent copy of the game.
func (gs *GameState) Clone() *GameState {
	c := *gs
	return &c
}

// Phase returns the current phase.
func (gs *GameState) Phase() Phase {
	return gs.phase
}

// CurrentPlayer returns the player to act.
func (gs *GameState) CurrentPlayer() Player {
	return gs.current
}

// Board returns a copy of the field.
func (gs *GameState) Board() Board {
	return gs.board
}

// Deck returns the number of pieces the current player has not placed yet.
func (gs *GameState) Deck() int {
	return gs.DeckOf(gs.current)
}

// Pieces returns the number of pieces the current player has on the board.
func (gs *GameState) Pieces() int {
	return gs.PiecesOf(gs.current)
}

// PendingMills returns the number of mills the current player has not resolved yet.
func (gs *GameState) PendingMills() int {
	if gs.phase != RemovePhase {
		return 0
	}
	return gs.pending
}

func (gs *GameState) DeckOf(p Player) int {
	if p != Player1 && p != Player2 {
		return 0
	}
	return gs.deck[p.index()]
}

func (gs *GameState) PiecesOf(p Player) int {
	if p != Player1 && p != Player2 {
		return 0
	}
	return gs.pieces[p.index()]
}

// MillsOf returns the closed mills recorded for p.
func (gs *GameState) MillsOf(p Player) []Line {
	if p != Player1 && p != Player2 {
		return nil
	}
	var lines []Line
	for i, line := range gs.topology.Lines() {
		if gs.mills[p.index()]&(1<<i) != 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

// Winner returns the winning player once the game ended, NoPlayer before.
func (gs *GameState) Winner() Player {
	if gs.phase != EndPhase {
		return NoPlayer
	}
	return gs.current
}

// Place puts a piece of the current player onto an empty point.
func (gs *GameState) Place(c Cell) error {
	if gs.phase != PlacePhase {
		return fmt.Errorf("place %s: %w", c, ErrWrongPhase)
	}
	if !c.Valid() {
		return fmt.Errorf("place %s: %w", c, ErrInvalidCell)
	}
	if gs.board[c] != Empty {
		return fmt.Errorf("place %s: %w", c, ErrOccupied)
	}
	if gs.deck[gs.current.index()] == 0 {
		return fmt.Errorf("place %s: %w", c, ErrEmptyDeck)
	}

	gs.board[c] = gs.current
	gs.deck[gs.current.index()]--
	gs.pieces[gs.current.index()]++
	return nil
}

// Move moves a piece of the current player from one point to another.
// Passing NoCell as destination only checks that the piece may be picked up.
func (gs *GameState) Move(from, to Cell) error {
	if gs.phase != MovePhase {
		return fmt.Errorf("move %s-%s: %w", from, to, ErrWrongPhase)
	}
	if !from.Valid() {
		return fmt.Errorf("move %s-%s: %w", from, to, ErrInvalidCell)
	}
	if gs.board[from] != gs.current {
		return fmt.Errorf("move %s-%s: %w", from, to, ErrNotOwnPiece)
	}
	if to == NoCell {
		return nil
	}
	if err := gs.checkMove(from, to); err != nil {
		return fmt.Errorf("move %s-%s: %w", from, to, err)
	}

	gs.board[to] = gs.board[from]
	gs.board[from] = Empty
	return nil
}

func (gs *GameState) checkMove(from, to Cell) error {
	if !to.Valid() {
		return ErrInvalidCell
	}
	if from == to {
		return ErrSameCell
	}
	if gs.board[to] != Empty {
		return ErrOccupied
	}
	// Flying: a player reduced to three pieces may jump anywhere
	if gs.pieces[gs.current.index()] > meta.FLYING_THRESHOLD && !gs.topology.AreAdjacent(from, to) {
		return ErrNotAdjacent
	}
	return nil
}

// Remove takes an opponent piece off the board after a mill was closed.
func (gs *GameState) Remove(c Cell) error {
	if gs.phase != RemovePhase {
		return fmt.Errorf("remove %s: %w", c, ErrWrongPhase)
	}
	if !c.Valid() {
		return fmt.Errorf("remove %s: %w", c, ErrInvalidCell)
	}
	if err := gs.checkRemove(c); err != nil {
		return fmt.Errorf("remove %s: %w", c, err)
	}

	opponent := Opponent(gs.current)
	gs.board[c] = Empty
	gs.pieces[opponent.index()]--
	return nil
}

func (gs *GameState) checkRemove(c Cell) error {
	opponent := Opponent(gs.current)
	if gs.board[c] != opponent {
		return ErrNotOpponentPiece
	}

	// A piece in a mill is only removable when no piece outside of mills is left
	covered := gs.millCells(opponent)
	if !covered[c] {
		return nil
	}
	for cell, piece := range gs.board {
		if piece == opponent && !covered[cell] {
			return ErrProtectedByMill
		}
	}
	return nil
}

// AdvancePhase moves the game to its next phase and passes the turn.
// It has to be called after every successful Place, Move and Remove.
func (gs *GameState) AdvancePhase() {
	mover := gs.current
	opponent := Opponent(mover)

	switch gs.phase {
	case PlacePhase, MovePhase:
		// End the game if the opponent has not enough pieces
		if gs.eliminated(opponent) {
			gs.phase = EndPhase
			return
		}

		// Stay with the mover if a new mill was closed and there is something to remove
		if newMills := gs.updateMills(mover); newMills > 0 && gs.pieces[opponent.index()] > 0 {
			gs.pending = newMills
			gs.phase = RemovePhase
			return
		}

		gs.passTurn()

	case RemovePhase:
		if gs.eliminated(opponent) {
			gs.phase = EndPhase
			return
		}

		// Stay in this phase if the mover still has mills to resolve
		gs.pending--
		if gs.pending > 0 && gs.pieces[opponent.index()] > 0 {
			return
		}
		gs.pending = 0

		// The removal may have broken opponent mills
		gs.updateMills(opponent)
		gs.passTurn()

	case InitPhase, EndPhase:
	}
}

// passTurn hands the turn to the opponent and selects the phase they play in.
func (gs *GameState) passTurn() {
	mover := gs.current
	opponent := Opponent(mover)

	if gs.deck[opponent.index()] > 0 {
		gs.current = opponent
		gs.phase = PlacePhase
		return
	}
	// End the game if the opponent can't move, the mover wins
	if !gs.hasMove(opponent) {
		gs.phase = EndPhase
		return
	}
	gs.current = opponent
	gs.phase = MovePhase
}

func (gs *GameState) eliminated(p Player) bool {
	return gs.pieces[p.index()] < meta.FLYING_THRESHOLD && gs.deck[p.index()] == 0
}

// updateMills replaces the stored mills of p with the ones closed now and
// returns how many of them were not closed before.
func (gs *GameState) updateMills(p Player) int {
	closed := gs.closedMills(p)
	newMills := closed &^ gs.mills[p.index()]
	gs.mills[p.index()] = closed
	return newMills.count()
}

// closedMills returns the lines fully held by p.
func (gs *GameState) closedMills(p Player) millSet {
	return closedMills(gs.topology, &gs.board, p)
}

func closedMills(t *Topology, b *Board, p Player) millSet {
	var set millSet
	for i, line := range t.Lines() {
		if b[line[0]] == p && b[line[1]] == p && b[line[2]] == p {
			set |= 1 << i
		}
	}
	return set
}

// millCells marks the points covered by a closed mill of p.
func (gs *GameState) millCells(p Player) [NumCells]bool {
	var covered [NumCells]bool
	closed := gs.closedMills(p)
	for i, line := range gs.topology.Lines() {
		if closed&(1<<i) == 0 {
			continue
		}
		for _, c := range line {
			covered[c] = true
		}
	}
	return covered
}

// hasMove checks if p could move a piece, ignoring whose turn it is.
func (gs *GameState) hasMove(p Player) bool {
	if gs.pieces[p.index()] <= meta.FLYING_THRESHOLD {
		return true
	}
	for c, piece := range gs.board {
		if piece != p {
			continue
		}
		for _, adj := range gs.topology.Adjacent(Cell(c)) {
			if gs.board[adj] == Empty {
				return true
			}
		}
	}
	return false
}
