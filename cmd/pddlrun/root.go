package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	rootDir string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "pddlrun",
		Short:         "Invoke the Fast Downward planner and explain its plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.rootDir, "root", ".", "project root holding templates/ and output/")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newExplainCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

func newLogger(opts *rootOptions) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
