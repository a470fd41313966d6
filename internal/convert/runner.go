package convert

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// RunOutput captures what a finished subprocess produced.
type RunOutput struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandRunner abstracts command execution for testability. Run returns a
// nil error for a process that started and exited, whatever its exit code.
type CommandRunner interface {
	Run(ctx context.Context, binary string, args []string) (RunOutput, error)
}

// waitDelay bounds how long Run waits for output pipes after the process is
// killed, in case a grandchild still holds them open.
const waitDelay = 5 * time.Second

type execRunner struct{}

func (execRunner) Run(ctx context.Context, binary string, args []string) (RunOutput, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	// nil Stdin reads from the null device, so a prompt sees EOF.
	cmd.Stdin = nil
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	out := RunOutput{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		out.ExitCode = -1
		return out, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	out.ExitCode = -1
	return out, err
}
