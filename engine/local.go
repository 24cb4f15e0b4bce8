package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"morris/experiments/metrics"
	"morris/game"
	"morris/learning"
	"morris/meta"
)

// Engine plays one game between two players on a local game state.
type Engine struct {
	players  [meta.NUM_OF_PLAYERS]Player
	maxTurns int
	starting game.Player
	rng      *rand.Rand
	state    *game.GameState
}

type Option func(e *Engine)

// WithMaxTurns ends the game as a draw after n actions.
func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		e.maxTurns = n
	}
}

// WithStartingPlayer fixes the player who moves first instead of drawing it.
func WithStartingPlayer(p game.Player) Option {
	return func(e *Engine) {
		e.starting = p
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// LocalEngine pairs players[0] as Player1 with players[1] as Player2.
func LocalEngine(players [meta.NUM_OF_PLAYERS]Player, opts ...Option) *Engine {
	for _, p := range players {
		if p == nil {
			panic("need two players")
		}
	}

	e := &Engine{
		players:  players,
		maxTurns: meta.MAX_TURNS,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = learning.NewRand(0)
	}
	return e
}

// State returns the state of the last game run, nil before the first.
func (e *Engine) State() *game.GameState {
	return e.state
}

// Run plays a new game until a player wins or the turn limit is reached, which
// is reported as NoPlayer. Every player is told the result.
func (e *Engine) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	starting := e.starting
	if starting == game.NoPlayer {
		starting = game.Player(e.rng.Intn(meta.NUM_OF_PLAYERS) + 1)
	}

	state, err := game.NewGameState(game.WithStartingPlayer(starting))
	if err != nil {
		return game.NoPlayer, metrics.GameMetric{}, nil, err
	}
	e.state = state

	for i, p := range e.players {
		side := game.Player(i + 1)
		if err := p.Begin(state, side); err != nil {
			return game.NoPlayer, metrics.GameMetric{}, nil, fmt.Errorf("%s failed to begin: %w", side, err)
		}
	}

	log.Info().Msgf("%s is starting", starting)

	gameMetric := metrics.GameMetric{
		StartingPlayer: starting,
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	turnCount := 1
	for state.Phase() != game.EndPhase && turnCount <= e.maxTurns {
		current := state.CurrentPlayer()
		player := e.players[int(current)-1]

		action, choice, err := player.Choose(state)
		if err != nil {
			return game.NoPlayer, gameMetric, moveMetrics, fmt.Errorf("%s failed to choose in turn %d: %w", current, turnCount, err)
		}
		if err := state.Apply(action); err != nil {
			return game.NoPlayer, gameMetric, moveMetrics, fmt.Errorf("%s played %s in turn %d: %w", current, action, turnCount, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turnCount,
			Player:       current,
			Action:       action,
			ChoiceMetric: choice,
		})
		log.Debug().Int("turn", turnCount).Stringer("player", current).Stringer("action", action).Stringer("phase", state.Phase()).Msg("applied")
		turnCount++
	}

	winner := state.Winner()
	for _, p := range e.players {
		p.Finish(winner)
	}

	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if winner != game.NoPlayer {
		log.Info().Msgf("game over after %d moves, winner: %s", len(moveMetrics), winner)
	} else {
		log.Info().Msgf("stopped after %d moves (no winner)", len(moveMetrics))
	}

	return winner, gameMetric, moveMetrics, nil
}
