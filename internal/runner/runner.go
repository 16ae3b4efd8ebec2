package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Output captures the result of a single invocation of the external binary.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExitError is returned when the binary ran but exited non-zero.
// Its message is exactly the captured stderr text, so callers can surface
// it to the front-end unchanged.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return e.Stderr
}

// Runner invokes the external claude binary with a single argument.
type Runner interface {
	// Run executes the binary with command as its only argument and waits for
	// it to finish. On success the Output carries the captured stdout. A
	// non-zero exit returns the Output alongside an *ExitError; a spawn
	// failure returns an error wrapping the underlying OS error.
	Run(ctx context.Context, command string) (*Output, error)
}

type claudeRunner struct {
	bin     string
	timeout time.Duration
}

// NewClaude returns a Runner that executes bin with the given per-invocation
// timeout. A zero timeout leaves the invocation bounded only by the caller's
// context.
func NewClaude(bin string, timeout time.Duration) Runner {
	return &claudeRunner{bin: bin, timeout: timeout}
}

func (r *claudeRunner) Run(ctx context.Context, command string) (*Output, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.bin, command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	out := &Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, &ExitError{Code: out.ExitCode, Stderr: out.Stderr}
		}
		out.ExitCode = -1
		return out, fmt.Errorf("execute %s: %w", r.bin, err)
	}

	return out, nil
}
