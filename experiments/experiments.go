package experiments

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"morris/config"
	"morris/engine"
	"morris/experiments/metrics"
	"morris/game"
	"morris/learning"
)

// Summary is the outcome of a training run from the learner's point of view.
type Summary struct {
	Games     int
	Wins      int
	Losses    int
	Draws     int
	Moves     int
	Records   int    // records in the brain after the run
	OutputDir string // where the CSV files went, empty if disabled
}

// matchUp holds the players of one training run. players[0] is the learner.
type matchUp struct {
	players [2]engine.Player
	store   *learning.Store
}

func newMatchUp(cfg config.Training, rng *rand.Rand) (*matchUp, error) {
	store := learning.NewStore(learning.WithRand(rand.New(rand.NewSource(rng.Uint64()))))

	// Choices are only measured when the records are written
	collector := metrics.NewCollector
	if cfg.OutputDir == "" {
		collector = metrics.NewDummyCollector
	}
	learner := engine.NewLearningPlayer(learning.NewAgent(store), cfg.RetryAttempts, engine.WithCollector(collector()))

	var opponent engine.Player
	switch cfg.Opponent {
	case config.OpponentRandom:
		opponent = engine.NewRandomPlayer(rand.New(rand.NewSource(rng.Uint64())))
	case config.OpponentSelf:
		opponent = engine.NewLearningPlayer(learning.NewAgent(store), cfg.RetryAttempts, engine.WithCollector(collector()))
	case config.OpponentObserved:
		random := engine.NewRandomPlayer(rand.New(rand.NewSource(rng.Uint64())))
		opponent = engine.NewObservedPlayer(random, learning.NewAgent(store))
	default:
		return nil, fmt.Errorf("unknown opponent %q", cfg.Opponent)
	}

	return &matchUp{
		players: [2]engine.Player{learner, opponent},
		store:   store,
	}, nil
}

// seating returns the players in side order. The learner switches sides every game.
func (m *matchUp) seating(gameIndex int) ([2]engine.Player, game.Player) {
	if gameIndex%2 == 1 {
		return [2]engine.Player{m.players[1], m.players[0]}, game.Player2
	}
	return m.players, game.Player1
}

// RunTraining plays cfg.Games games against the configured opponent, learning
// into the brain file at cfg.BrainPath.
func RunTraining(cfg config.Training) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	rng := learning.NewRand(cfg.Seed)
	m, err := newMatchUp(cfg, rng)
	if err != nil {
		return Summary{}, err
	}

	err = m.store.Load(cfg.BrainPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info().Msgf("no brain at %s, starting from scratch", cfg.BrainPath)
	case err != nil:
		return Summary{}, err
	default:
		log.Info().Msgf("loaded %d records from %s", m.store.Len(), cfg.BrainPath)
	}

	log.Info().Msgf("starting training: %d games against %s opponent...", cfg.Games, cfg.Opponent)

	summary := Summary{}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	for i := 0; i < cfg.Games; i++ {
		players, learnerSide := m.seating(i)
		e := engine.LocalEngine(players,
			engine.WithMaxTurns(cfg.MaxTurns),
			engine.WithRand(rand.New(rand.NewSource(rng.Uint64()))),
		)

		winner, gameMetric, moveMetrics, err := e.Run()
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", i+1, err)
		}

		summary.Games++
		summary.Moves += len(moveMetrics)
		switch winner {
		case game.NoPlayer:
			summary.Draws++
		case learnerSide:
			summary.Wins++
		default:
			summary.Losses++
		}

		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         i + 1,
			Opponent:   cfg.Opponent,
			GameMetric: gameMetric,
		})
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{
				Game:       i + 1,
				MoveMetric: mm,
			})
		}

		log.Info().Msgf("completed game %d of %d, learner played %s, winner: %s", i+1, cfg.Games, learnerSide, winner)

		if cfg.CheckpointEvery > 0 && (i+1)%cfg.CheckpointEvery == 0 && i+1 < cfg.Games {
			if err := m.store.Save(cfg.BrainPath); err != nil {
				return summary, err
			}
			log.Info().Msgf("checkpoint after %d games: %d records", i+1, m.store.Len())
		}
	}

	if err := m.store.Save(cfg.BrainPath); err != nil {
		return summary, err
	}
	summary.Records = m.store.Len()
	log.Info().Msgf("completed training: %+v", summary)

	if cfg.OutputDir == "" {
		return summary, nil
	}

	writer, err := metrics.NewWriter(cfg.OutputDir, "training")
	if err != nil {
		return summary, err
	}
	summary.OutputDir = writer.Dir()

	if err := writer.WriteSetup(cfg); err != nil {
		return summary, err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return summary, err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return summary, err
	}
	log.Info().Msg("stored move records")

	return summary, nil
}
