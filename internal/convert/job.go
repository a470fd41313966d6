package convert

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mp4convert/internal/config"
)

// TargetExtension replaces the source suffix in destination names.
const TargetExtension = "mp4"

// Job pairs a source file with its derived destination.
type Job struct {
	Source      string
	Destination string
	// Threads is passed to the transcoder when positive.
	Threads int
}

// NewJob derives the destination for source. An empty outputDir writes the
// result next to the source.
func NewJob(source, suffix, outputDir string, threads int) Job {
	return Job{
		Source:      source,
		Destination: DestinationPath(source, suffix, outputDir),
		Threads:     threads,
	}
}

// DestinationPath returns outputDir (or the source directory when outputDir
// is empty) joined with the source file name after ReplaceSuffix.
func DestinationPath(source, suffix, outputDir string) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, ReplaceSuffix(filepath.Base(source), suffix))
}

// ReplaceSuffix substitutes the first occurrence of suffix in name with
// TargetExtension. "avi_avi.avi" with suffix "avi" becomes "mp4_avi.avi";
// directory components never reach this function.
func ReplaceSuffix(name, suffix string) string {
	if suffix == "" {
		return name
	}
	return strings.Replace(name, suffix, TargetExtension, 1)
}

// Options controls how the transcoder is invoked.
type Options struct {
	Binary string
	// Strict is the value following -strict.
	Strict          string
	Overwrite       string
	Timeout         time.Duration
	StderrTailLines int
}

// OptionsFromConfig maps the [transcoder] config section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Options{
		Binary:          cfg.TranscoderBinary(),
		Strict:          cfg.Transcoder.Strict,
		Overwrite:       cfg.Transcoder.Overwrite,
		Timeout:         cfg.TranscoderTimeout(),
		StderrTailLines: cfg.Transcoder.StderrTailLines,
	}
}

// Arguments builds the transcoder argument list:
//
//	-i <source> -strict <strict> [-threads N] [-y|-n] <destination>
func Arguments(job Job, opts Options) []string {
	strict := opts.Strict
	if strict == "" {
		strict = "-2"
	}
	args := []string{"-i", job.Source, "-strict", strict}
	if job.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(job.Threads))
	}
	switch opts.Overwrite {
	case config.OverwriteYes:
		args = append(args, "-y")
	case config.OverwriteNo:
		args = append(args, "-n")
	}
	return append(args, job.Destination)
}
