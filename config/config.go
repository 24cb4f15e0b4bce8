package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"morris/meta"
)

const (
	OpponentRandom   = "random"   // the learner plays a random player
	OpponentSelf     = "self"     // both sides learn into the same brain
	OpponentObserved = "observed" // the learner also watches the random side
)

var Opponents = []string{OpponentRandom, OpponentSelf, OpponentObserved}

// Training configures a training run.
type Training struct {
	Games           int    `yaml:"games"`
	MaxTurns        int    `yaml:"max_turns"`
	RetryAttempts   uint   `yaml:"retry_attempts"`
	Seed            uint64 `yaml:"seed"` // 0 draws a random seed
	BrainPath       string `yaml:"brain_path"`
	Opponent        string `yaml:"opponent"`
	CheckpointEvery int    `yaml:"checkpoint_every"` // games between brain saves, 0 saves only at the end
	OutputDir       string `yaml:"output_dir"`       // empty disables the CSV output
	LogLevel        string `yaml:"log_level"`
}

// DefaultBrainPath is the brain file below the XDG data home.
func DefaultBrainPath() string {
	return filepath.Join(xdg.DataHome, meta.LIB_NAME, "brain.bin")
}

func Default() Training {
	return Training{
		Games:           100,
		MaxTurns:        meta.MAX_TURNS,
		RetryAttempts:   meta.RETRY_ATTEMPTS,
		BrainPath:       DefaultBrainPath(),
		Opponent:        OpponentRandom,
		CheckpointEvery: 25,
		OutputDir:       "experiments",
		LogLevel:        zerolog.LevelInfoValue,
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file keep their default.
func Load(path string) (Training, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Training) Validate() error {
	var errs []error
	if c.Games < 1 {
		errs = append(errs, fmt.Errorf("games must be positive, got %d", c.Games))
	}
	if c.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("max_turns must be positive, got %d", c.MaxTurns))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, errors.New("retry_attempts must be positive"))
	}
	if c.CheckpointEvery < 0 {
		errs = append(errs, fmt.Errorf("checkpoint_every must not be negative, got %d", c.CheckpointEvery))
	}
	if c.BrainPath == "" {
		errs = append(errs, errors.New("brain_path is required"))
	}
	if !lo.Contains(Opponents, c.Opponent) {
		errs = append(errs, fmt.Errorf("unknown opponent %q, expected one of %v", c.Opponent, Opponents))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}
