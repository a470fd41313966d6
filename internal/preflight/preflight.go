package preflight

import (
	"context"

	"mp4convert/internal/config"
	"mp4convert/internal/request"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg and, when req is non-nil, to
// the directories of a validated request. Results are advisory: a run goes
// ahead after logging failures.
func RunAll(ctx context.Context, cfg *config.Config, req *request.Request) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir, ReadWrite))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, ReadWrite))
	}

	if req != nil {
		// In-place output lands in each source's own directory, which may be
		// writable even when the root is not.
		results = append(results, CheckDirectoryAccess("Search root", req.Root, ReadOnly))
		if !req.InPlace() {
			results = append(results, CheckDirectoryAccess("Output directory", req.OutputDir, ReadWrite))
		}
	}

	results = append(results, CheckTranscoder(ctx, cfg))
	return results
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
