package walker

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mp4convert/internal/config"
	"mp4convert/internal/logging"
)

// ErrorPolicy selects how unreadable subdirectories are handled.
type ErrorPolicy int

const (
	// Propagate stops the walk and yields the listing error.
	Propagate ErrorPolicy = iota
	// SkipAndWarn logs the listing error and continues with the next entry.
	// The root directory is never skipped.
	SkipAndWarn
)

func (p ErrorPolicy) String() string {
	if p == SkipAndWarn {
		return config.WalkerSkip
	}
	return config.WalkerPropagate
}

// ParsePolicy maps a config value onto an ErrorPolicy.
func ParsePolicy(value string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", config.WalkerPropagate:
		return Propagate, nil
	case config.WalkerSkip:
		return SkipAndWarn, nil
	default:
		return Propagate, fmt.Errorf("walker: unknown error policy %q", value)
	}
}

// Options tunes a walk.
type Options struct {
	Policy ErrorPolicy
	Logger *slog.Logger

	readDir func(string) ([]fs.DirEntry, error)
}

// Walk yields every non-directory path under root whose full path string ends
// with suffix. Matching is a plain string suffix test: "mp4" also matches
// "clip.wmp4". Directory symlinks are not followed.
//
// A listing error is yielded as ("", err) and ends the walk unless
// opts.Policy is SkipAndWarn and the failing directory is not root. Context
// cancellation ends the walk with ctx.Err().
func Walk(ctx context.Context, root, suffix string, opts Options) iter.Seq2[string, error] {
	w := &walk{
		ctx:     ctx,
		suffix:  suffix,
		policy:  opts.Policy,
		logger:  logging.NewComponentLogger(opts.Logger, "walker"),
		readDir: opts.readDir,
	}
	if w.readDir == nil {
		w.readDir = listDir
	}
	return func(yield func(string, error) bool) {
		w.dir(root, true, yield)
	}
}

type walk struct {
	ctx     context.Context
	suffix  string
	policy  ErrorPolicy
	logger  *slog.Logger
	readDir func(string) ([]fs.DirEntry, error)
}

// dir walks one directory and reports whether the walk should continue.
func (w *walk) dir(path string, isRoot bool, yield func(string, error) bool) bool {
	if err := w.ctx.Err(); err != nil {
		yield("", err)
		return false
	}

	w.logger.Info("searching directory",
		logging.String("dir", path),
		logging.String("suffix", w.suffix),
	)

	entries, err := w.readDir(path)
	if err != nil {
		err = fmt.Errorf("list directory %s: %w", path, err)
		if isRoot || w.policy == Propagate {
			yield("", err)
			return false
		}
		logging.WarnWithContext(w.logger, "skipping unreadable directory", "directory_skipped",
			logging.String("dir", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
			logging.String(logging.FieldImpact, "files below this directory are not converted"),
		)
		return true
	}

	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if !w.dir(full, false, yield) {
				return false
			}
			continue
		}
		if !strings.HasSuffix(full, w.suffix) {
			continue
		}
		if !yield(full, nil) {
			return false
		}
	}
	return true
}

// listDir returns entries in directory order; os.ReadDir would sort them.
func listDir(path string) ([]fs.DirEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}
