package main

import (
	"github.com/pddl-tools/pddlrun"
	"github.com/spf13/cobra"
)

func newConfigCmd(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration and validation results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := pddlrun.LoadConfig(rootOpts.rootDir)

			return printJSON(cmd, map[string]any{
				"planner": map[string]any{
					"launcher":    cfg.Planner.Launcher,
					"interpreter": cfg.Planner.Interpreter,
					"domain_path": cfg.Planner.DomainPath,
				},
				"planning": map[string]any{
					"search_algorithm": cfg.Planning.SearchAlgorithm,
					"timeout":          cfg.Planning.Timeout.String(),
					"max_retries":      cfg.Planning.MaxRetries,
					"retry_delay":      cfg.Planning.RetryDelay.String(),
					"backoff_factor":   cfg.Planning.BackoffFactor,
					"error_log_length": cfg.Planning.ErrorLogLength,
				},
				"paths": map[string]any{
					"root":      cfg.Paths.Root,
					"templates": cfg.Paths.Templates,
					"output":    cfg.Paths.Output,
					"plan_dir":  cfg.Paths.PlanDir,
					"pddl_dir":  cfg.Paths.PDDLDir,
				},
				"validation": cfg.Validate(),
			})
		},
	}
}
