package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mp4convert/internal/deps"
	"mp4convert/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report dependency and directory status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			writeSection(out, "Configuration", colorize)
			path := ctx.configPath
			if path == "" {
				path = "(defaults)"
			}
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, path, colorize))
			fmt.Fprintln(out, renderStatusLine("Walker errors", statusInfo, cfg.Walker.ErrorPolicy, colorize))
			fmt.Fprintln(out, renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize))

			fmt.Fprintln(out)
			writeSection(out, "Dependencies", colorize)
			statuses := preflight.CheckSystemDeps(cfg)
			for _, status := range statuses {
				kind, message := depStatus(status)
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			fmt.Fprintln(out)
			writeSection(out, "Preflight", colorize)
			results := preflight.RunAll(cmd.Context(), cfg, nil)
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, checkStatus(r), r.Detail, colorize))
			}

			missing := deps.Missing(statuses)
			failed := preflight.Failures(results)
			if len(missing) > 0 || len(failed) > 0 {
				return fmt.Errorf("%w: %d missing dependency(s), %d failed check(s)", errPreflight, len(missing), len(failed))
			}
			return nil
		},
	}
}
