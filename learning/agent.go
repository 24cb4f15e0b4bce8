package learning

import (
	"errors"

	"github.com/rs/zerolog/log"

	"morris/game"
)

var (
	ErrNoBoard        = errors.New("no board to read from")
	ErrNotInitialized = errors.New("agent is not initialized")
)

// BoardReader gives read access to the board of a running game.
type BoardReader interface {
	Board() game.Board
}

// Agent plays one side using the learned store. As a spectator it only
// records the steps somebody else plays for that side.
type Agent struct {
	reader    BoardReader
	spectator bool
	store     *Store
	session   *Session
	key       StateKey // position of the last NextStep(false)
	explored  bool     // the last step was drawn at random
}

// NewAgent returns an agent learning into store. A nil store gets a fresh one.
func NewAgent(store *Store) *Agent {
	if store == nil {
		store = NewStore()
	}
	return &Agent{store: store}
}

// Initialize attaches the agent to the board of a new game and drops any
// history that was not committed.
func (a *Agent) Initialize(reader BoardReader, spectator bool) error {
	if reader == nil {
		a.reader = nil
		return ErrNoBoard
	}
	if gs, ok := reader.(*game.GameState); ok && gs == nil {
		a.reader = nil
		return ErrNoBoard
	}

	a.reader = reader
	a.spectator = spectator
	a.session = a.store.NewSession()
	a.key = StateKey{}
	a.explored = false
	return nil
}

// Ready returns ErrNotInitialized until Initialize succeeded.
func (a *Agent) Ready() error {
	if a.reader == nil {
		return ErrNotInitialized
	}
	return nil
}

// IsSpectator reports whether somebody else chooses the steps.
func (a *Agent) IsSpectator() bool {
	return a.spectator
}

// Store returns the store the agent learns into.
func (a *Agent) Store() *Store {
	return a.store
}

// Key returns the position the agent last looked at.
func (a *Agent) Key() StateKey {
	return a.key
}

// Explored reports whether the last step came from random exploration.
func (a *Agent) Explored() bool {
	return a.explored
}

// NextStep proposes the next step. Without retry it reads the board and picks
// the best known step, falling back to a random one; with retry it draws a new
// random candidate for the same position. Spectators get NoStep.
// Candidates are not checked against the rules.
func (a *Agent) NextStep(retry bool) Step {
	if a.reader == nil {
		return NoStep
	}
	if retry {
		a.explored = true
		return a.store.RandomStep()
	}

	a.key = Encode(a.reader.Board())
	if a.spectator {
		return NoStep
	}

	step, known := a.store.SelectMove(a.key)
	a.explored = !known
	log.Debug().Stringer("key", a.key).Stringer("step", step).Bool("known", known).Msg("next step")
	return step
}

// Register records the step actually played in the position of the last NextStep(false).
func (a *Agent) Register(step Step) {
	if a.session == nil {
		return
	}
	a.session.Register(a.key, step)
}

// Commit learns from the registered steps once the game result is known.
func (a *Agent) Commit(winner bool) {
	if a.session == nil {
		return
	}
	log.Debug().Int("steps", a.session.Len()).Bool("winner", winner).Msg("committing history")
	a.session.Commit(winner)
}

// Discard forgets the registered steps.
func (a *Agent) Discard() {
	if a.session == nil {
		return
	}
	a.session.Discard()
}

// Pending returns the number of registered steps not committed yet.
func (a *Agent) Pending() int {
	if a.session == nil {
		return 0
	}
	return a.session.Len()
}

// Load replaces the learned records with a brain file.
func (a *Agent) Load(path string) error {
	return a.store.Load(path)
}

// Save writes the learned records to a brain file.
func (a *Agent) Save(path string) error {
	return a.store.Save(path)
}
