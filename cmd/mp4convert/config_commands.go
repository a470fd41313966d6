package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mp4convert/internal/config"
	"mp4convert/internal/deps"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the mp4convert configuration file",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%w: %s already exists; pass --overwrite to replace it", errUsage, target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("load sample config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			writeTranscoderLine(out, cfg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report the settings a run would use",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.flagConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			writeTranscoderLine(out, cfg)
			timeout := "none"
			if d := cfg.TranscoderTimeout(); d > 0 {
				timeout = d.String()
			}
			fmt.Fprintf(out, "Per-file timeout: %s\n", timeout)
			fmt.Fprintf(out, "Walker errors: %s\n", cfg.Walker.ErrorPolicy)
			fmt.Fprintf(out, "Run lock: %s\n", cfg.LockPath())
			if cfg.History.Enabled {
				fmt.Fprintf(out, "History: %s\n", cfg.History.Path)
			} else {
				fmt.Fprintln(out, "History: disabled")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func configTarget(flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return path, nil
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return expanded, nil
}

// writeTranscoderLine names the configured transcoder and where it resolves.
func writeTranscoderLine(w io.Writer, cfg *config.Config) {
	status := deps.CheckBinaries(deps.Requirements(cfg))[0]
	if status.Available {
		fmt.Fprintf(w, "Transcoder: %s (resolved to %s)\n", status.Command, status.Resolved)
		return
	}
	fmt.Fprintf(w, "Transcoder: %s (%s; set transcoder.binary or MP4CONVERT_FFMPEG)\n", status.Command, status.Detail)
}
