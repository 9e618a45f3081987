package main

import (
	"fmt"
	"os"

	"github.com/pddl-tools/pddlrun"
	"github.com/spf13/cobra"
)

func newExplainCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <plan> [explanation]",
		Short: "Translate a plan trace into natural language",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return pddlrun.ExplainFile(args[0], args[1])
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read plan file: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), pddlrun.ExplainContent(string(data)))

			return nil
		},
	}
}
