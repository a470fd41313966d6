package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mp4convert/internal/request"
	"mp4convert/internal/runlock"
)

// reportError prints err for a terminal user and returns the process exit code.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	switch {
	case request.UserMessage(err) != "":
		fmt.Fprintln(w, request.UserMessage(err))
	case errors.Is(err, runlock.ErrHeld):
		fmt.Fprintln(w, "Another mp4convert run is already in progress")
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted")
	case errors.Is(err, errPreflight), errors.Is(err, errUsage):
		fmt.Fprintln(w, err)
	default:
		fmt.Fprintln(w, "Sorry something went wrong")
		fmt.Fprintln(w, err)
	}
	return 1
}

var (
	errPreflight = errors.New("preflight failed")
	errUsage     = errors.New("usage")
)
