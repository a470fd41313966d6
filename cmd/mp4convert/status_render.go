package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"mp4convert/internal/convert"
	"mp4convert/internal/deps"
	"mp4convert/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	ansiReset        = "\x1b[0m"
	statusLabelWidth = 20
)

// renderStatusLine formats "  label:   [KIND] message", colored on terminals.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if colorize && style.color != "" {
		return style.color + line + ansiReset
	}
	return line
}

func writeSection(w io.Writer, title string, colorize bool) {
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		header = statusStyles[statusInfo].color + header + ansiReset
	}
	fmt.Fprintln(w, header)
}

// jobStatus describes a finished conversion for the per-job progress line.
func jobStatus(index int, result convert.Result) (string, statusKind, string) {
	label := fmt.Sprintf("%d. %s", index, filepath.Base(result.Job.Source))
	switch result.Outcome {
	case convert.OutcomeConverted:
		return label, statusOK, "saved at " + result.Job.Destination
	case convert.OutcomeSkipped:
		return label, statusWarn, "skipped, source is not a file"
	}
	if result.Err != nil {
		return label, statusError, result.Err.Error()
	}
	return label, statusError, "conversion failed"
}

func depStatus(status deps.Status) (statusKind, string) {
	switch {
	case status.Available:
		return statusOK, status.Resolved
	case status.Optional:
		return statusWarn, status.Detail
	default:
		return statusError, status.Detail
	}
}

func checkStatus(result preflight.Result) statusKind {
	if result.Passed {
		return statusOK
	}
	return statusError
}

// shouldColorize reports whether writer is a terminal.
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
