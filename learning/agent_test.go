package learning

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"morris/game"
)

func newGame(t *testing.T) *game.GameState {
	t.Helper()
	gs, err := game.NewGameState()
	require.NoError(t, err)
	return gs
}

func TestAgentInitialize(t *testing.T) {
	t.Run("requires a board", func(t *testing.T) {
		a := NewAgent(nil)
		require.ErrorIs(t, a.Initialize(nil, false), ErrNoBoard)
		require.ErrorIs(t, a.Ready(), ErrNotInitialized)

		var gs *game.GameState
		require.ErrorIs(t, a.Initialize(gs, false), ErrNoBoard)
		require.Equal(t, NoStep, a.NextStep(false))
	})

	t.Run("usable after a retry with a board", func(t *testing.T) {
		a := NewAgent(nil)
		require.Error(t, a.Initialize(nil, false))
		require.NoError(t, a.Initialize(newGame(t), false))
		require.NoError(t, a.Ready())
		require.NotNil(t, a.Store())
	})
}

func TestAgentNextStep(t *testing.T) {
	t.Run("uses the best known step", func(t *testing.T) {
		store := NewStore(WithSeed(1))
		empty := Encode(game.Board{})
		store.Register(empty, place(4))
		store.Commit(true)

		a := NewAgent(store)
		require.NoError(t, a.Initialize(newGame(t), false))

		require.Equal(t, place(4), a.NextStep(false))
		require.False(t, a.Explored())
		require.Equal(t, empty, a.Key())
	})

	t.Run("retry draws a random candidate", func(t *testing.T) {
		a := NewAgent(NewStore(WithSeed(3)))
		require.NoError(t, a.Initialize(newGame(t), false))

		step := a.NextStep(true)
		require.True(t, a.Explored())
		require.True(t, step.From.Valid())
		require.True(t, step.To.Valid())
	})

	t.Run("spectators never propose", func(t *testing.T) {
		a := NewAgent(nil)
		require.NoError(t, a.Initialize(newGame(t), true))
		require.True(t, a.IsSpectator())
		require.Equal(t, NoStep, a.NextStep(false))
	})
}

func TestAgentLearnsFromAGame(t *testing.T) {
	gs := newGame(t)
	store := NewStore(WithSeed(11))
	learner := NewAgent(store)
	observer := NewAgent(store)
	require.NoError(t, learner.Initialize(gs, false))
	require.NoError(t, observer.Initialize(gs, true))

	// Player 1 is driven by the learner, player 2 is watched by the observer
	for turn := 0; turn < 4; turn++ {
		agent := learner
		if gs.CurrentPlayer() == game.Player2 {
			agent = observer
		}

		candidate := agent.NextStep(false)
		var action game.Action
		if agent.IsSpectator() {
			action = gs.LegalActions()[0]
		} else {
			for retry := 0; ; retry++ {
				a, ok := candidate.Action(gs.Phase())
				if ok && gs.IsLegal(a) {
					action = a
					break
				}
				require.Less(t, retry, 10000, "no legal candidate found")
				candidate = agent.NextStep(true)
			}
		}

		require.NoError(t, gs.Apply(action))
		agent.Register(StepFor(action))
	}

	require.Equal(t, 2, learner.Pending())
	require.Equal(t, 2, observer.Pending())
	learner.Commit(true)
	observer.Commit(false)
	require.Equal(t, 0, learner.Pending())

	records := store.Records()
	require.Len(t, records, 4)
	wins, losses := 0, 0
	for _, r := range records {
		wins += int(r.Wins)
		losses += int(r.Losses)
	}
	require.Equal(t, 2, wins)
	require.Equal(t, 2, losses)

	// The first position is now known to the learner
	replay := NewAgent(store)
	require.NoError(t, replay.Initialize(newGame(t), false))
	step := replay.NextStep(false)
	require.False(t, replay.Explored())
	require.Equal(t, game.NoCell, step.From)

	path := filepath.Join(t.TempDir(), "brain.bin")
	require.NoError(t, learner.Save(path))
	fresh := NewAgent(nil)
	require.NoError(t, fresh.Load(path))
	require.ElementsMatch(t, records, fresh.Store().Records())
}
