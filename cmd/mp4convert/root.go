package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var flags convertFlags

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "mp4convert <vin> <ftype>",
		Short: "Converts videos of given file type to Mp4",
		Long: "Searches vin and every directory below it for files ending with ftype\n" +
			"and converts each one to mp4 with ffmpeg, one file at a time.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v; run %s", errUsage, err, cmd.UseLine())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, args[0], args[1], flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&flags.outputDir, "vout", "", "Directory to save converted videos to. If blank will save next to each source")
	rootCmd.Flags().IntVar(&flags.threads, "threads", 0, "Number of threads to limit ffmpeg to (1-9)")
	rootCmd.Flags().IntVar(&flags.timeoutMinutes, "timeout", 0, "Kill a conversion after this many minutes (0 waits indefinitely)")
	rootCmd.Flags().BoolVar(&flags.skipOnError, "skip-on-error", false, "Skip unreadable directories instead of stopping the run")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
