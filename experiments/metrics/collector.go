package metrics

import (
	"morris/game"
	"time"
)

// ChoiceMetric describes how a player arrived at one action.
type ChoiceMetric struct {
	Duration time.Duration
	Attempts int  // candidates drawn, including the first
	Explored bool // the action did not come from a known record
	Fallback bool // every candidate was illegal and the first legal action was played
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Action game.Action
	ChoiceMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player // NoPlayer for a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start()
	AddAttempt()
	SetExplored(value bool)
	SetFallback(value bool)
	Complete() ChoiceMetric
}

type collector struct {
	startTime time.Time
	attempts  int
	explored  bool
	fallback  bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.attempts = 0
	m.explored = false
	m.fallback = false
}

func (m *collector) AddAttempt() {
	m.attempts++
}

func (m *collector) SetExplored(value bool) {
	m.explored = value
}

func (m *collector) SetFallback(value bool) {
	m.fallback = value
}

func (m *collector) Complete() ChoiceMetric {
	return ChoiceMetric{
		Duration: time.Since(m.startTime),
		Attempts: m.attempts,
		Explored: m.explored,
		Fallback: m.fallback,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddAttempt()            {}
func (m *dummyCollector) SetExplored(value bool) {}
func (m *dummyCollector) SetFallback(value bool) {}
func (m *dummyCollector) Complete() ChoiceMetric { return ChoiceMetric{} }
