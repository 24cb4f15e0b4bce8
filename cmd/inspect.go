package cmd

import (
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"morris/learning"
)

// morris inspect
func Inspect() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect brain-file",
		Short: "Show what a brain file has learned",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`inspect loads a brain file and prints how many records and
			positions it holds, followed by the records with the best
			balance (wins minus losses) together with their positions.

			Positions are shown as three rows of eight points, outer
			square first. X marks the first player, O the second.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := cmd.Flags().GetInt("top")
			if err != nil {
				return err
			}

			store := learning.NewStore()
			if err := store.Load(args[0]); err != nil {
				return err
			}

			records := store.Records()
			positions := lo.UniqBy(records, func(r learning.Record) learning.StateKey { return r.Key })
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d records, %d positions\n", args[0], len(records), len(positions))

			slices.SortStableFunc(records, func(a, b learning.Record) int {
				return b.Balance() - a.Balance()
			})
			for _, r := range lo.Subset(records, 0, uint(max(top, 0))) {
				board, err := learning.Decode(r.Key)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s step %s  wins %d  losses %d  balance %+d\n%s\n",
					r.Key, r.Step, r.Wins, r.Losses, r.Balance(), board)
			}
			return nil
		},
	}

	cmd.Flags().IntP("top", "n", 10, "Number of records to show")

	return cmd
}
