package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"morris/config"
	"morris/experiments"
)

// morris train
func Train() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the brain by playing games",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`train plays a number of games between the learning player
			and an opponent and stores what was learned in the brain file.

			The opponent is one of random (uniformly random legal actions),
			self (a second learning player sharing the brain) or observed
			(a random player whose actions are learned as well).

			Settings are read from the file given with --config and can be
			overridden with the flags below. The brain is saved every
			--checkpoint games and at the end of the run; per game and per
			move records are written as CSV below --out.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := trainingConfig(cmd)
			if err != nil {
				return err
			}

			if !cmd.Flag("debug").Changed {
				level, _ := zerolog.ParseLevel(cfg.LogLevel)
				zerolog.SetGlobalLevel(level)
			}

			summary, err := experiments.RunTraining(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "games: %d  wins: %d  losses: %d  draws: %d\n",
				summary.Games, summary.Wins, summary.Losses, summary.Draws)
			fmt.Fprintf(cmd.OutOrStdout(), "brain: %s (%d records)\n", cfg.BrainPath, summary.Records)
			if summary.OutputDir != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "records: %s\n", summary.OutputDir)
			}
			return nil
		},
	}

	defaults := config.Default()
	cmd.Flags().IntP("games", "n", defaults.Games, "Number of games to play")
	cmd.Flags().StringP("opponent", "o", defaults.Opponent, "Opponent: random, self or observed")
	cmd.Flags().StringP("brain", "b", defaults.BrainPath, "Brain file to learn into")
	cmd.Flags().Uint64P("seed", "s", defaults.Seed, "Random seed, 0 for a random one")
	cmd.Flags().Int("max-turns", defaults.MaxTurns, "Actions after which a game is a draw")
	cmd.Flags().Uint("retries", defaults.RetryAttempts, "Candidates drawn per turn before falling back")
	cmd.Flags().Int("checkpoint", defaults.CheckpointEvery, "Games between brain saves, 0 to save only at the end")
	cmd.Flags().String("out", defaults.OutputDir, "Directory for CSV records, empty to disable")

	return cmd
}

// trainingConfig reads --config if given and applies the flags that were set.
func trainingConfig(cmd *cobra.Command) (config.Training, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("games") {
		cfg.Games, err = flags.GetInt("games")
	}
	if err == nil && flags.Changed("opponent") {
		cfg.Opponent, err = flags.GetString("opponent")
	}
	if err == nil && flags.Changed("brain") {
		cfg.BrainPath, err = flags.GetString("brain")
	}
	if err == nil && flags.Changed("seed") {
		cfg.Seed, err = flags.GetUint64("seed")
	}
	if err == nil && flags.Changed("max-turns") {
		cfg.MaxTurns, err = flags.GetInt("max-turns")
	}
	if err == nil && flags.Changed("retries") {
		cfg.RetryAttempts, err = flags.GetUint("retries")
	}
	if err == nil && flags.Changed("checkpoint") {
		cfg.CheckpointEvery, err = flags.GetInt("checkpoint")
	}
	if err == nil && flags.Changed("out") {
		cfg.OutputDir, err = flags.GetString("out")
	}
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}
