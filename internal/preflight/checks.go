package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"mp4convert/internal/config"
	"mp4convert/internal/deps"
)

// Access selects the permissions CheckDirectoryAccess requires.
type Access int

const (
	// ReadOnly requires the directory to be listable.
	ReadOnly Access = iota
	// ReadWrite additionally requires files to be creatable in it.
	ReadWrite
)

func (a Access) mode() uint32 {
	if a == ReadWrite {
		return unix.R_OK | unix.W_OK | unix.X_OK
	}
	return unix.R_OK | unix.X_OK
}

func (a Access) label() string {
	if a == ReadWrite {
		return "read/write ok"
	}
	return "read ok"
}

// CheckDirectoryAccess verifies that the directory exists and grants access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, access.mode()); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, access.label())}
}

// CheckTranscoder verifies that the configured transcoder resolves and answers
// "-version".
func CheckTranscoder(ctx context.Context, cfg *config.Config) Result {
	const name = "Transcoder"

	status := deps.CheckBinaries(deps.Requirements(cfg))[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	version, err := deps.Version(ctx, status.Resolved)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", status.Resolved, err)}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckSystemDeps evaluates the external binaries required by cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}
