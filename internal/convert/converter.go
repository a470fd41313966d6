package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mp4convert/internal/logging"
)

// Outcome classifies a finished job.
type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// ErrSourceMissing marks a job whose source was gone or not a regular file
// when conversion started.
var ErrSourceMissing = errors.New("source is not a file")

// Result describes one job after Convert returns.
type Result struct {
	Job        Job
	Outcome    Outcome
	StartedAt  time.Time
	Duration   time.Duration
	ExitCode   int
	StderrTail string
	Err        error
}

// Minutes reports the transcoder wall-clock time in minutes.
func (r Result) Minutes() float64 {
	return r.Duration.Minutes()
}

// Option configures the converter.
type Option func(*Converter)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(runner CommandRunner) Option {
	return func(c *Converter) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// WithClock overrides the time source used for timing.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// Converter runs jobs one at a time.
type Converter struct {
	opts   Options
	runner CommandRunner
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Converter.
func New(opts Options, logger *slog.Logger, options ...Option) *Converter {
	if strings.TrimSpace(opts.Binary) == "" {
		opts.Binary = "ffmpeg"
	}
	c := &Converter{
		opts:   opts,
		runner: execRunner{},
		logger: logging.NewComponentLogger(logger, "convert"),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Convert runs the transcoder for job. A missing source yields
// OutcomeSkipped without starting a process; a non-zero exit, a start
// failure, or a timeout yields OutcomeFailed. Convert never aborts the
// caller's batch: problems are carried in the Result.
func (c *Converter) Convert(ctx context.Context, job Job) Result {
	name := filepath.Base(job.Source)
	logger := c.logger.With(
		logging.String(logging.FieldSource, job.Source),
		logging.String(logging.FieldDestination, job.Destination),
	)
	logger.Info(fmt.Sprintf("converting %s", name), logging.String(logging.FieldEventType, "job_started"))

	result := Result{Job: job, StartedAt: c.now()}

	if err := checkSource(job.Source); err != nil {
		result.Outcome = OutcomeSkipped
		result.Err = err
		logging.WarnWithContext(logger, fmt.Sprintf("%s is not a file", job.Source), "job_skipped",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "file moved or deleted after discovery"),
		)
		c.logTiming(logger, result)
		return result
	}

	// A started transcode always runs to completion; cancellation of ctx is
	// honoured by the caller between jobs. Only the per-job timeout kills it.
	runCtx := context.WithoutCancel(ctx)
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, c.opts.Timeout)
		defer cancel()
	}

	args := Arguments(job, c.opts)
	logger.Debug("transcoder command", logging.String("binary", c.opts.Binary), logging.String("args", strings.Join(args, " ")))

	out, err := c.runner.Run(runCtx, c.opts.Binary, args)
	result.Duration = c.now().Sub(result.StartedAt)
	result.ExitCode = out.ExitCode
	result.StderrTail = tailLines(string(out.Stderr), c.opts.StderrTailLines)

	switch {
	case err != nil:
		result.Outcome = OutcomeFailed
		result.Err = c.runError(err)
	case out.ExitCode != 0:
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("transcoder exited with status %d", out.ExitCode)
	default:
		result.Outcome = OutcomeConverted
	}

	if result.Outcome == OutcomeConverted {
		logger.Info(fmt.Sprintf("Finished converting %s saved at %s", name, job.Destination),
			logging.String(logging.FieldEventType, "job_converted"),
		)
	} else {
		logging.WarnWithContext(logger, fmt.Sprintf("converting %s failed", name), "job_failed",
			logging.Error(result.Err),
			logging.Int("exit_code", result.ExitCode),
			logging.String("stderr_tail", result.StderrTail),
			logging.String(logging.FieldErrorHint, "inspect stderr_tail or rerun the transcoder by hand"),
		)
	}
	c.logTiming(logger, result)
	return result
}

func (c *Converter) logTiming(logger *slog.Logger, result Result) {
	logger.Info(fmt.Sprintf("Converted in %.2f minutes", result.Minutes()),
		logging.Duration("duration", result.Duration),
	)
}

func (c *Converter) runError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("transcoder timed out after %s: %w", c.opts.Timeout, err)
	default:
		return fmt.Errorf("run transcoder %s: %w", c.opts.Binary, err)
	}
}

func checkSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceMissing, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrSourceMissing, path)
	}
	return nil
}

func tailLines(text string, n int) string {
	text = strings.TrimRight(text, "\r\n")
	if text == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
