package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const invocationSeparator = "--invocation--"

// FakeTranscoder is a shell script standing in for ffmpeg. Each run appends
// its arguments to a log file, writes a marker to stderr, and creates the
// file named by its final argument. A lone -version call is answered and
// not logged.
type FakeTranscoder struct {
	Path    string
	LogPath string
}

// FakeOption tweaks the generated script.
type FakeOption func(*fakeScript)

type fakeScript struct {
	exitCode     int
	sleepSeconds int
	stderr       string
}

// FakeExitCode makes every run exit with code.
func FakeExitCode(code int) FakeOption {
	return func(s *fakeScript) { s.exitCode = code }
}

// FakeSleep makes every run hang for seconds and then exit 0 without
// creating its output.
func FakeSleep(seconds int) FakeOption {
	return func(s *fakeScript) { s.sleepSeconds = seconds }
}

// FakeStderr sets the text written to stderr on every run.
func FakeStderr(text string) FakeOption {
	return func(s *fakeScript) { s.stderr = text }
}

// NewFakeTranscoder writes the script into a temp directory.
func NewFakeTranscoder(t testing.TB, opts ...FakeOption) *FakeTranscoder {
	t.Helper()

	script := fakeScript{stderr: "fake transcoder"}
	for _, opt := range opts {
		opt(&script)
	}

	dir := t.TempDir()
	fake := &FakeTranscoder{
		Path:    filepath.Join(dir, "ffmpeg"),
		LogPath: filepath.Join(dir, "invocations.log"),
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("if [ \"$1\" = -version ]; then echo 'ffmpeg version fake'; exit 0; fi\n")
	fmt.Fprintf(&b, "echo %s >> %q\n", invocationSeparator, fake.LogPath)
	fmt.Fprintf(&b, "for arg in \"$@\"; do printf '%%s\\n' \"$arg\" >> %q; done\n", fake.LogPath)
	fmt.Fprintf(&b, "printf '%%s\\n' %q >&2\n", script.stderr)
	if script.sleepSeconds > 0 {
		// exec so a kill reaches the sleeping process directly
		fmt.Fprintf(&b, "exec sleep %d\n", script.sleepSeconds)
	}
	b.WriteString("for last; do :; done\n")
	b.WriteString("[ -n \"$last\" ] && : > \"$last\"\n")
	fmt.Fprintf(&b, "exit %d\n", script.exitCode)

	if err := os.WriteFile(fake.Path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("write fake transcoder: %v", err)
	}
	return fake
}

// Invocations returns the argument lists of every recorded run.
func (f *FakeTranscoder) Invocations(t testing.TB) [][]string {
	t.Helper()

	data, err := os.ReadFile(f.LogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read invocation log: %v", err)
	}
	var runs [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == invocationSeparator {
			runs = append(runs, []string{})
			continue
		}
		if len(runs) == 0 {
			continue
		}
		runs[len(runs)-1] = append(runs[len(runs)-1], line)
	}
	return runs
}
