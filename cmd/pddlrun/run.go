package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pddl-tools/pddlrun"
	"github.com/spf13/cobra"
)

func newRunCmd(rootOpts *rootOptions) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "run <task.json>",
		Short: "Run a planning task file and print the result JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read task file: %w", err)
			}

			var task map[string]any
			if err := json.Unmarshal(data, &task); err != nil {
				return fmt.Errorf("parse task file: %w", err)
			}

			if outputDir != "" {
				task["output_dir"] = outputDir
			}

			cfg := pddlrun.LoadConfig(rootOpts.rootDir)
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure output directories: %w", err)
			}

			svc := pddlrun.NewService(cfg, newLogger(rootOpts))
			result := svc.RunTask(cmd.Context(), task)

			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for plan and log files")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
