package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"mp4convert/internal/batch"
	"mp4convert/internal/config"
	"mp4convert/internal/convert"
	"mp4convert/internal/history"
	"mp4convert/internal/logging"
	"mp4convert/internal/preflight"
	"mp4convert/internal/request"
	"mp4convert/internal/runlock"
	"mp4convert/internal/walker"
)

const bannerRule = "-------------------------------------"

type convertFlags struct {
	outputDir      string
	threads        int
	timeoutMinutes int
	skipOnError    bool
}

func printBanner(w io.Writer) {
	fmt.Fprintln(w, bannerRule)
	fmt.Fprintln(w, "           Convert Video to Mp4")
	fmt.Fprintln(w, bannerRule)
}

func runConvert(cmd *cobra.Command, cmdCtx *commandContext, root, suffix string, flags convertFlags) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	if err := applyConvertFlags(cmd, cfg, flags); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printBanner(out)

	if cmd.Flags().Changed("threads") && flags.threads < request.MinThreads {
		return fmt.Errorf("%w: got %d", request.ErrThreadsOutOfRange, flags.threads)
	}
	req, err := request.Request{
		Root:      root,
		Suffix:    suffix,
		OutputDir: flags.outputDir,
		Threads:   flags.threads,
	}.Validate()
	if err != nil {
		return err
	}

	logger, err := cmdCtx.newLogger(out)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx := cmd.Context()
	for _, f := range preflight.Failures(preflight.RunAll(ctx, cfg, &req)) {
		logging.WarnWithContext(logger, fmt.Sprintf("preflight: %s: %s", f.Name, f.Detail), "preflight_failed",
			logging.String(logging.FieldImpact, "affected jobs are recorded as failed"),
			logging.String(logging.FieldErrorHint, "run mp4convert check"),
		)
	}

	policy, err := walker.ParsePolicy(cfg.Walker.ErrorPolicy)
	if err != nil {
		return err
	}

	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	logger.Debug("run lock acquired", logging.String("path", lock.Path()))
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	opts := batch.Options{
		Converter: convert.New(convert.OptionsFromConfig(cfg), logger),
		Walker:    walker.Options{Policy: policy, Logger: logger},
		Reporter:  newStatusReporter(out, shouldColorize(out)),
		Logger:    logger,
	}
	if store := openHistory(ctx, cfg, logger); store != nil {
		defer store.Close()
		opts.Recorder = store
	}

	summary, err := batch.Run(ctx, req, opts)
	printSummary(out, summary)
	return err
}

func applyConvertFlags(cmd *cobra.Command, cfg *config.Config, flags convertFlags) error {
	if cmd.Flags().Changed("timeout") {
		if flags.timeoutMinutes < 0 {
			return fmt.Errorf("%w: --timeout must not be negative, got %d", errUsage, flags.timeoutMinutes)
		}
		cfg.Transcoder.TimeoutMinutes = flags.timeoutMinutes
	}
	if flags.skipOnError {
		cfg.Walker.ErrorPolicy = config.WalkerSkip
	}
	return nil
}

// openHistory returns nil when history is disabled or unavailable; a run never
// fails because its audit log cannot be opened.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		logging.WarnWithContext(logger, "job history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
			logging.String(logging.FieldErrorHint, "check history.path in the config"),
		)
		return nil
	}
	return store
}

func printSummary(w io.Writer, summary batch.Summary) {
	if summary.RunID == "" {
		return
	}
	fmt.Fprintln(w, bannerRule)
	fmt.Fprintf(w, "Converted %d, failed %d, skipped %d in %s\n",
		summary.Converted, summary.Failed, summary.Skipped, formatDuration(summary.Duration))
	fmt.Fprintf(w, "Run ID: %s\n", summary.RunID)
}

type statusReporter struct {
	out      io.Writer
	colorize bool
}

func newStatusReporter(out io.Writer, colorize bool) *statusReporter {
	return &statusReporter{out: out, colorize: colorize}
}

func (r *statusReporter) JobStarted(int, string) {}

func (r *statusReporter) JobFinished(index int, result convert.Result) {
	label, kind, message := jobStatus(index, result)
	fmt.Fprintln(r.out, renderStatusLine(label, kind, message, r.colorize))
}
