package learning

import (
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"morris/game"
)

// Store is the learned table of (state, step) outcomes. It also keeps the
// history of the running game until the result is known.
type Store struct {
	records []Record
	index   map[entry]int // position of a (key, step) pair in records
	session *Session      // history of Register/Commit on the store itself
	rng     *rand.Rand
}

// Session is the history of one side in one game. Several sessions may feed
// the same store, e.g. when the store plays against itself.
type Session struct {
	store   *Store
	history []entry
}

type StoreOption func(s *Store)

// WithSeed makes exploration reproducible.
func WithSeed(seed uint64) StoreOption {
	return func(s *Store) {
		s.rng = NewRand(seed)
	}
}

// WithRand lets the store share a random source with its caller.
func WithRand(rng *rand.Rand) StoreOption {
	return func(s *Store) {
		s.rng = rng
	}
}

// NewRand returns a random source for the seed, or a randomly seeded one for 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	return rand.New(rand.NewSource(seed))
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		index: make(map[entry]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRand(0)
	}
	s.session = s.NewSession()
	return s
}

// NewSession starts an empty history feeding this store.
func (s *Store) NewSession() *Session {
	return &Session{store: s}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in storage order.
func (s *Store) Records() []Record {
	records := make([]Record, len(s.records))
	copy(records, s.records)
	return records
}

// Lookup returns the record of a (key, step) pair.
func (s *Store) Lookup(key StateKey, step Step) (Record, bool) {
	i, ok := s.index[entry{Key: key, Step: step}]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Reset drops all records and the store's own history.
func (s *Store) Reset() {
	s.records = nil
	s.index = make(map[entry]int)
	s.session.history = nil
}

// SelectMove returns the step with the best balance recorded for the key.
// Ties go to the record stored first. Without any record a random step is
// drawn and false is returned.
func (s *Store) SelectMove(key StateKey) (Step, bool) {
	matching := lo.Filter(s.records, func(r Record, _ int) bool {
		return r.Key == key
	})
	if len(matching) == 0 {
		return s.RandomStep(), false
	}
	best := lo.MaxBy(matching, func(a, b Record) bool {
		return a.Balance() > b.Balance()
	})
	return best.Step, true
}

// RandomStep draws a step uniformly over all points. It may well be illegal.
func (s *Store) RandomStep() Step {
	return Step{
		From: game.Cell(s.rng.Intn(game.NumCells)),
		To:   game.Cell(s.rng.Intn(game.NumCells)),
	}
}

// Register appends a step to the store's own history.
func (s *Store) Register(key StateKey, step Step) {
	s.session.Register(key, step)
}

// Commit merges the store's own history with the game result.
func (s *Store) Commit(winner bool) {
	s.session.Commit(winner)
}

// Discard drops the store's own history, e.g. after a drawn game.
func (s *Store) Discard() {
	s.session.Discard()
}

// HistoryLen returns the length of the store's own history.
func (s *Store) HistoryLen() int {
	return s.session.Len()
}

// record adds counts to the record of a pair, creating it when missing.
func (s *Store) record(e entry, wins, losses uint16) {
	i, ok := s.index[e]
	if !ok {
		s.records = append(s.records, Record{Key: e.Key, Step: e.Step})
		i = len(s.records) - 1
		s.index[e] = i
	}
	s.records[i].Wins = saturatingAdd(s.records[i].Wins, wins)
	s.records[i].Losses = saturatingAdd(s.records[i].Losses, losses)
}

// Register appends a step played in the position key.
func (h *Session) Register(key StateKey, step Step) {
	h.history = append(h.history, entry{Key: key, Step: step})
}

// Commit adds a win or a loss to every registered pair and clears the history.
func (h *Session) Commit(winner bool) {
	for _, e := range h.history {
		var result Record
		result.addResult(winner)
		h.store.record(e, result.Wins, result.Losses)
	}
	h.history = nil
}

// Discard clears the history without learning from it.
func (h *Session) Discard() {
	h.history = nil
}

// Len returns the number of registered steps.
func (h *Session) Len() int {
	return len(h.history)
}
