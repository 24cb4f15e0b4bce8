package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"morris/meta"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   meta.LIB_NAME,
		Short: "Nine Men's Morris with a self-learning opponent",
		Args:  cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			// If --debug flag is provided, log every move.
			if cmd.Flag("debug").Changed {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	// global flags
	root.PersistentFlags().BoolP("debug", "d", false, "Show Debug Information")
	root.PersistentFlags().StringP("config", "c", "", "Read the training configuration from a YAML file")

	root.Version = meta.LIB_VERSION

	root.AddCommand(Train())
	root.AddCommand(Inspect())

	return root
}
