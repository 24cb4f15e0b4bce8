package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boardWith(player1, player2 []Cell) Board {
	var b Board
	for _, c := range player1 {
		b[c] = Player1
	}
	for _, c := range player2 {
		b[c] = Player2
	}
	return b
}

func newGame(t *testing.T, opts ...Option) *GameState {
	t.Helper()
	gs, err := NewGameState(opts...)
	require.NoError(t, err)
	return gs
}

// play applies a place/move/remove call and advances the phase like a driver would.
func play(t *testing.T, gs *GameState, a Action) {
	t.Helper()
	require.NoError(t, gs.Apply(a), "%s by %s in %s", a, gs.CurrentPlayer(), gs.Phase())
}

func place(c Cell) Action       { return Action{Type: PlaceAction, From: NoCell, To: c} }
func move(from, to Cell) Action { return Action{Type: MoveAction, From: from, To: to} }
func remove(c Cell) Action      { return Action{Type: RemoveAction, From: c, To: NoCell} }

func TestNewGameState(t *testing.T) {
	gs := newGame(t)

	require.Equal(t, PlacePhase, gs.Phase())
	require.Equal(t, Player1, gs.CurrentPlayer())
	require.Equal(t, 9, gs.Deck())
	require.Equal(t, 0, gs.Pieces())
	require.Equal(t, 9, gs.DeckOf(Player2))
	require.Equal(t, 0, gs.PendingMills())
	require.Equal(t, NoPlayer, gs.Winner())
	require.Equal(t, Board{}, gs.Board())

	t.Run("starting player option", func(t *testing.T) {
		gs := newGame(t, WithStartingPlayer(Player2))
		require.Equal(t, Player2, gs.CurrentPlayer())

		_, err := NewGameState(WithStartingPlayer(Empty))
		require.Error(t, err)
	})
}

func TestPlace(t *testing.T) {
	t.Run("occupies an empty point", func(t *testing.T) {
		gs := newGame(t)
		require.NoError(t, gs.Place(5))

		b := gs.Board()
		require.Equal(t, Player1, b.Get(5))
		require.Equal(t, 8, gs.DeckOf(Player1))
		require.Equal(t, 1, gs.PiecesOf(Player1))
	})

	t.Run("fails on an occupied point without changes", func(t *testing.T) {
		gs := newGame(t)
		play(t, gs, place(5))
		before := *gs

		require.ErrorIs(t, gs.Place(5), ErrOccupied)
		require.Equal(t, before, *gs)
	})

	t.Run("fails off the field", func(t *testing.T) {
		gs := newGame(t)
		require.ErrorIs(t, gs.Place(24), ErrInvalidCell)
		require.ErrorIs(t, gs.Place(NoCell), ErrInvalidCell)
	})

	t.Run("fails outside of the place phase", func(t *testing.T) {
		gs := newGame(t, WithDecks(0, 0), WithPhase(MovePhase))
		require.ErrorIs(t, gs.Place(0), ErrWrongPhase)
	})
}

func TestPlacementPhaseLastsUntilBothDecksAreEmpty(t *testing.T) {
	gs := newGame(t)

	// Neither side can close a line with these points
	player1 := []Cell{0, 2, 4, 6, 8, 10, 12, 14, 16}
	player2 := []Cell{1, 9, 3, 11, 5, 13, 7, 15, 18}

	for i := range player1 {
		require.Equal(t, Player1, gs.CurrentPlayer())
		play(t, gs, place(player1[i]))
		require.Equal(t, PlacePhase, gs.Phase(), "after placement %d of player 1", i+1)

		require.Equal(t, Player2, gs.CurrentPlayer())
		play(t, gs, place(player2[i]))
		if i < len(player1)-1 {
			require.Equal(t, PlacePhase, gs.Phase(), "after placement %d of player 2", i+1)
		}
	}

	require.Equal(t, MovePhase, gs.Phase())
	require.Equal(t, Player1, gs.CurrentPlayer())
	require.Equal(t, 0, gs.DeckOf(Player1))
	require.Equal(t, 0, gs.DeckOf(Player2))
	require.Equal(t, 9, gs.PiecesOf(Player1))
	require.Equal(t, 9, gs.PiecesOf(Player2))
}

func TestMillDetection(t *testing.T) {
	t.Run("three in a row during placement", func(t *testing.T) {
		gs := newGame(t)
		play(t, gs, place(0))
		play(t, gs, place(8))
		play(t, gs, place(1))
		play(t, gs, place(9))
		play(t, gs, place(2))

		require.Equal(t, RemovePhase, gs.Phase())
		require.Equal(t, Player1, gs.CurrentPlayer())
		require.Equal(t, 1, gs.PendingMills())
		require.Equal(t, []Line{{0, 1, 2}}, gs.MillsOf(Player1))
	})

	t.Run("two mills closed at once need two removals", func(t *testing.T) {
		gs := newGame(t, WithBoard(boardWith([]Cell{0, 1, 3, 4}, []Cell{8, 12, 16, 20})))
		play(t, gs, place(2))

		require.Equal(t, RemovePhase, gs.Phase())
		require.Equal(t, 2, gs.PendingMills())

		play(t, gs, remove(8))
		require.Equal(t, RemovePhase, gs.Phase())
		require.Equal(t, Player1, gs.CurrentPlayer())
		require.Equal(t, 1, gs.PendingMills())

		play(t, gs, remove(12))
		require.Equal(t, PlacePhase, gs.Phase())
		require.Equal(t, Player2, gs.CurrentPlayer())
		require.Equal(t, 2, gs.PiecesOf(Player2))
	})

	t.Run("pending mills lapse when nothing is left to remove", func(t *testing.T) {
		gs := newGame(t, WithBoard(boardWith([]Cell{0, 1, 3, 4}, []Cell{8})))
		play(t, gs, place(2))
		require.Equal(t, 2, gs.PendingMills())

		play(t, gs, remove(8))
		require.Equal(t, PlacePhase, gs.Phase())
		require.Equal(t, Player2, gs.CurrentPlayer())
		require.Equal(t, 0, gs.PiecesOf(Player2))
		require.Equal(t, 8, gs.DeckOf(Player2))
	})

	t.Run("an existing mill is not counted again", func(t *testing.T) {
		gs := newGame(t, WithBoard(boardWith([]Cell{0, 1, 2}, []Cell{8})))
		play(t, gs, place(20))

		require.Equal(t, PlacePhase, gs.Phase())
		require.Equal(t, Player2, gs.CurrentPlayer())
	})

	t.Run("moving out and back closes the mill again", func(t *testing.T) {
		gs := newGame(t,
			WithBoard(boardWith([]Cell{0, 1, 2, 20}, []Cell{12, 14, 22, 23})),
			WithDecks(0, 0),
			WithPhase(MovePhase),
		)
		play(t, gs, move(2, 3))
		play(t, gs, move(12, 11))
		play(t, gs, move(3, 2))

		require.Equal(t, RemovePhase, gs.Phase())
		require.Equal(t, 1, gs.PendingMills())
	})
}

func TestRemove(t *testing.T) {
	removing := func(t *testing.T, player2 []Cell) *GameState {
		return newGame(t,
			WithBoard(boardWith([]Cell{16, 17, 18}, player2)),
			WithPhase(RemovePhase),
			WithPendingMills(1),
		)
	}

	t.Run("protects mills while free pieces exist", func(t *testing.T) {
		gs := removing(t, []Cell{8, 9, 10, 20})
		before := *gs

		require.ErrorIs(t, gs.Remove(9), ErrProtectedByMill)
		require.Equal(t, before, *gs)
		require.NoError(t, gs.Remove(20))
	})

	t.Run("any piece when all pieces are in mills", func(t *testing.T) {
		gs := removing(t, []Cell{8, 9, 10})
		require.NoError(t, gs.Remove(9))
		require.Equal(t, 2, gs.PiecesOf(Player2))
	})

	t.Run("a piece shared by two mills", func(t *testing.T) {
		gs := removing(t, []Cell{0, 1, 2, 3, 4})
		require.NoError(t, gs.Remove(2))

		gs = removing(t, []Cell{0, 1, 2, 3, 4, 20})
		require.ErrorIs(t, gs.Remove(2), ErrProtectedByMill)
	})

	t.Run("only opponent pieces", func(t *testing.T) {
		gs := removing(t, []Cell{8})
		require.ErrorIs(t, gs.Remove(16), ErrNotOpponentPiece)
		require.ErrorIs(t, gs.Remove(0), ErrNotOpponentPiece)
	})

	t.Run("legal actions skip protected pieces", func(t *testing.T) {
		gs := removing(t, []Cell{8, 9, 10, 20, 21})
		require.ElementsMatch(t, []Action{remove(20), remove(21)}, gs.LegalActions())
	})

	t.Run("broken mill counts again when re-closed", func(t *testing.T) {
		gs := removing(t, []Cell{8, 9, 10})
		play(t, gs, remove(10))
		require.Equal(t, PlacePhase, gs.Phase())
		require.Equal(t, Player2, gs.CurrentPlayer())

		play(t, gs, place(10))
		require.Equal(t, RemovePhase, gs.Phase())
		require.Equal(t, Player2, gs.CurrentPlayer())
	})
}

func TestMove(t *testing.T) {
	moving := func(t *testing.T, player1 []Cell) *GameState {
		return newGame(t,
			WithBoard(boardWith(player1, []Cell{4, 5, 12, 13})),
			WithDecks(0, 0),
			WithPhase(MovePhase),
		)
	}

	t.Run("flying with three pieces", func(t *testing.T) {
		gs := moving(t, []Cell{0, 9, 20})
		require.NoError(t, gs.Move(0, 22))

		b := gs.Board()
		require.Equal(t, Empty, b.Get(0))
		require.Equal(t, Player1, b.Get(22))
	})

	t.Run("no flying with four pieces", func(t *testing.T) {
		gs := moving(t, []Cell{0, 9, 20, 21})
		require.ErrorIs(t, gs.Move(0, 22), ErrNotAdjacent)
		require.NoError(t, gs.Move(0, 1))
	})

	t.Run("rejects bad moves without changes", func(t *testing.T) {
		gs := moving(t, []Cell{0, 9, 20, 21})
		before := *gs

		require.ErrorIs(t, gs.Move(0, 0), ErrSameCell)
		require.ErrorIs(t, gs.Move(4, 3), ErrNotOwnPiece)
		require.ErrorIs(t, gs.Move(21, 13), ErrOccupied)
		require.ErrorIs(t, gs.Move(1, 2), ErrNotOwnPiece)
		require.ErrorIs(t, gs.Move(0, 30), ErrInvalidCell)
		require.Equal(t, before, *gs)
	})

	t.Run("probe without destination", func(t *testing.T) {
		gs := moving(t, []Cell{0, 9, 20, 21})
		before := *gs

		require.NoError(t, gs.Move(9, NoCell))
		require.ErrorIs(t, gs.Move(4, NoCell), ErrNotOwnPiece)
		require.Equal(t, before, *gs)
	})

	t.Run("legal actions follow adjacency", func(t *testing.T) {
		gs := moving(t, []Cell{0, 9, 20, 21})
		require.ElementsMatch(t, []Action{
			move(0, 1), move(0, 7),
			move(9, 1), move(9, 8), move(9, 10), move(9, 17),
			move(20, 19),
			move(21, 22),
		}, gs.LegalActions())
	})
}

func TestGameEnd(t *testing.T) {
	t.Run("opponent reduced to two pieces", func(t *testing.T) {
		gs := newGame(t,
			WithBoard(boardWith([]Cell{16, 17, 18}, []Cell{0, 2, 4})),
			WithDecks(0, 0),
			WithPhase(RemovePhase),
			WithPendingMills(1),
		)
		play(t, gs, remove(4))

		require.Equal(t, EndPhase, gs.Phase())
		require.Equal(t, Player1, gs.Winner())
		require.Empty(t, gs.LegalActions())
	})

	t.Run("opponent without a legal move", func(t *testing.T) {
		gs := newGame(t,
			WithBoard(boardWith([]Cell{1, 3, 5, 9, 15}, []Cell{0, 2, 4, 6})),
			WithDecks(0, 0),
			WithPhase(MovePhase),
		)
		play(t, gs, move(15, 7))

		require.Equal(t, EndPhase, gs.Phase())
		require.Equal(t, Player1, gs.Winner())
		require.ErrorIs(t, gs.Move(7, 15), ErrWrongPhase)
	})

	t.Run("elimination wins over pending mills", func(t *testing.T) {
		gs := newGame(t,
			WithBoard(boardWith([]Cell{16, 17, 18}, []Cell{8, 9, 20})),
			WithDecks(0, 0),
			WithPhase(RemovePhase),
			WithPendingMills(2),
		)
		play(t, gs, remove(20))

		require.Equal(t, EndPhase, gs.Phase())
		require.Equal(t, Player1, gs.Winner())
	})

	t.Run("removal leaves the opponent blocked", func(t *testing.T) {
		gs := newGame(t,
			WithBoard(boardWith([]Cell{1, 3, 5, 7, 9, 17}, []Cell{0, 2, 4, 6, 20})),
			WithDecks(0, 0),
			WithPhase(RemovePhase),
			WithPendingMills(1),
		)
		play(t, gs, remove(20))

		require.Equal(t, EndPhase, gs.Phase())
		require.Equal(t, Player1, gs.CurrentPlayer())
		require.Equal(t, Player1, gs.Winner())
	})

	t.Run("removal hands over to a movable opponent", func(t *testing.T) {
		gs := newGame(t,
			WithBoard(boardWith([]Cell{1, 3, 5, 7, 9, 17}, []Cell{0, 2, 4, 6, 20, 21})),
			WithDecks(0, 0),
			WithPhase(RemovePhase),
			WithPendingMills(1),
		)
		play(t, gs, remove(0))

		require.Equal(t, MovePhase, gs.Phase())
		require.Equal(t, Player2, gs.CurrentPlayer())
		require.Equal(t, NoPlayer, gs.Winner())
	})

	t.Run("advancing an ended game changes nothing", func(t *testing.T) {
		gs := newGame(t, WithPhase(EndPhase))
		before := *gs
		gs.AdvancePhase()
		require.Equal(t, before, *gs)
	})
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	gs := newGame(t)
	require.ErrorIs(t, gs.Apply(Action{Type: ActionType(42)}), ErrUnknownAction)
	require.False(t, gs.IsLegal(place(24)))
	require.True(t, gs.IsLegal(place(3)))
	require.Equal(t, Board{}, gs.Board())
}
