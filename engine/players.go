package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"morris/experiments/metrics"
	"morris/game"
	"morris/learning"
	"morris/meta"
)

var errIllegalCandidate = errors.New("illegal candidate")

// LearningPlayer plays the steps proposed by a learning agent. Candidates are
// checked against the rules and redrawn until a legal one turns up or the
// attempts run out, in which case the first legal action is played.
type LearningPlayer struct {
	agent     *learning.Agent
	attempts  uint
	side      game.Player
	collector metrics.Collector
}

type PlayerOption func(p *LearningPlayer)

// WithCollector replaces the collector measuring each choice.
func WithCollector(c metrics.Collector) PlayerOption {
	return func(p *LearningPlayer) {
		p.collector = c
	}
}

// NewLearningPlayer returns a player driven by agent. Zero attempts means meta.RETRY_ATTEMPTS.
func NewLearningPlayer(agent *learning.Agent, attempts uint, opts ...PlayerOption) *LearningPlayer {
	if attempts == 0 {
		attempts = meta.RETRY_ATTEMPTS
	}
	p := &LearningPlayer{
		agent:     agent,
		attempts:  attempts,
		collector: metrics.NewCollector(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *LearningPlayer) Agent() *learning.Agent {
	return p.agent
}

func (p *LearningPlayer) Begin(gs *game.GameState, side game.Player) error {
	p.side = side
	return p.agent.Initialize(gs, false)
}

func (p *LearningPlayer) Choose(gs *game.GameState) (game.Action, metrics.ChoiceMetric, error) {
	if err := p.agent.Ready(); err != nil {
		return game.Action{}, metrics.ChoiceMetric{}, err
	}

	p.collector.Start()
	var action game.Action
	retrying := false
	err := retry.Do(
		func() error {
			p.collector.AddAttempt()
			step := p.agent.NextStep(retrying)
			retrying = true

			candidate, ok := step.Action(gs.Phase())
			if !ok || !gs.IsLegal(candidate) {
				return fmt.Errorf("%w: %s in %s", errIllegalCandidate, step, gs.Phase())
			}
			action = candidate
			return nil
		},
		retry.Attempts(p.attempts),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		legal := gs.LegalActions()
		if len(legal) == 0 {
			return game.Action{}, metrics.ChoiceMetric{}, ErrNoLegalAction
		}
		action = legal[0]
		p.collector.SetFallback(true)
		log.Debug().Err(err).Stringer("action", action).Msg("no legal candidate, falling back")
	}

	p.collector.SetExplored(p.agent.Explored())
	p.agent.Register(learning.StepFor(action))
	return action, p.collector.Complete(), nil
}

func (p *LearningPlayer) Finish(winner game.Player) {
	finish(p.agent, p.side, winner)
}

// RandomPlayer plays a uniformly drawn legal action.
type RandomPlayer struct {
	rng *rand.Rand
}

func NewRandomPlayer(rng *rand.Rand) *RandomPlayer {
	if rng == nil {
		rng = learning.NewRand(0)
	}
	return &RandomPlayer{rng: rng}
}

func (p *RandomPlayer) Begin(gs *game.GameState, side game.Player) error {
	return nil
}

func (p *RandomPlayer) Choose(gs *game.GameState) (game.Action, metrics.ChoiceMetric, error) {
	start := time.Now()
	legal := gs.LegalActions()
	if len(legal) == 0 {
		return game.Action{}, metrics.ChoiceMetric{}, ErrNoLegalAction
	}
	action := legal[p.rng.Intn(len(legal))]
	return action, metrics.ChoiceMetric{Duration: time.Since(start), Attempts: 1, Explored: true}, nil
}

func (p *RandomPlayer) Finish(winner game.Player) {}

// ObservedPlayer lets a spectating agent learn from the actions of another player.
type ObservedPlayer struct {
	Player
	agent *learning.Agent
	side  game.Player
}

func NewObservedPlayer(inner Player, agent *learning.Agent) *ObservedPlayer {
	return &ObservedPlayer{Player: inner, agent: agent}
}

func (p *ObservedPlayer) Begin(gs *game.GameState, side game.Player) error {
	p.side = side
	if err := p.agent.Initialize(gs, true); err != nil {
		return err
	}
	return p.Player.Begin(gs, side)
}

func (p *ObservedPlayer) Choose(gs *game.GameState) (game.Action, metrics.ChoiceMetric, error) {
	if err := p.agent.Ready(); err != nil {
		return game.Action{}, metrics.ChoiceMetric{}, err
	}
	p.agent.NextStep(false)
	action, metric, err := p.Player.Choose(gs)
	if err != nil {
		return action, metric, err
	}
	p.agent.Register(learning.StepFor(action))
	return action, metric, nil
}

func (p *ObservedPlayer) Finish(winner game.Player) {
	p.Player.Finish(winner)
	finish(p.agent, p.side, winner)
}

// finish commits the agent's history, or drops it for a draw.
func finish(agent *learning.Agent, side, winner game.Player) {
	if winner == game.NoPlayer {
		agent.Discard()
		return
	}
	agent.Commit(winner == side)
}
