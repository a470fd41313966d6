// Package request defines the validated inputs of a conversion run.
package request

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Thread limit bounds accepted for the transcoder.
const (
	MinThreads = 1
	MaxThreads = 9
)

var (
	// ErrInvalidRoot reports a search root that is missing or not a directory.
	ErrInvalidRoot = errors.New("invalid search root")
	// ErrInvalidOutput reports an output directory that is missing or not a directory.
	ErrInvalidOutput = errors.New("invalid output directory")
	// ErrEmptySuffix reports a blank file type.
	ErrEmptySuffix = errors.New("empty file type")
	// ErrThreadsOutOfRange reports a thread limit outside MinThreads..MaxThreads.
	ErrThreadsOutOfRange = errors.New("thread limit must be between 1 and 9")
)

// Request describes one search-and-convert run. A zero OutputDir converts in
// place and a zero Threads leaves the transcoder's default parallelism.
type Request struct {
	Root      string
	Suffix    string
	OutputDir string
	Threads   int
}

// Validate checks the request in the order the CLI reports problems and
// returns a copy with Root and OutputDir made absolute. Errors wrap one of the
// package sentinels.
func (r Request) Validate() (Request, error) {
	root, err := resolveDir(r.Root)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	r.Root = root

	if strings.TrimSpace(r.OutputDir) != "" {
		out, err := resolveDir(r.OutputDir)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		r.OutputDir = out
	} else {
		r.OutputDir = ""
	}

	if strings.TrimSpace(r.Suffix) == "" {
		return Request{}, ErrEmptySuffix
	}

	if r.Threads != 0 && (r.Threads < MinThreads || r.Threads > MaxThreads) {
		return Request{}, fmt.Errorf("%w: got %d", ErrThreadsOutOfRange, r.Threads)
	}
	return r, nil
}

// InPlace reports whether outputs are written next to their sources.
func (r Request) InPlace() bool {
	return r.OutputDir == ""
}

func resolveDir(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("no directory given")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return filepath.Abs(path)
}

var userMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidRoot, "Sorry we can't search that location."},
	{ErrInvalidOutput, "Sorry we can't save files there"},
	{ErrEmptySuffix, "You did not provide a file type!"},
	{ErrThreadsOutOfRange, "Thread limit must be between 1 and 9"},
}

// UserMessage returns the short message shown to a user for a validation
// error, or "" when err is not a validation error.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return ""
}
