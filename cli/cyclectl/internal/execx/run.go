package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes an external command and returns its textual output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type Result struct {
	Code   int
	Stderr string
	Err    error
}

// CommandError reports a command that exited non-zero or could not be started.
type CommandError struct {
	Name   string
	Args   []string
	Code   int
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	line := strings.TrimSpace(strings.Join(append([]string{e.Name}, e.Args...), " "))
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("could not execute command %q (exit %d): %s", line, e.Code, msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Host runs commands on the local machine. A zero Timeout means no deadline.
type Host struct {
	Timeout time.Duration
}

// Run executes name with args and returns stdout, or stderr when stdout is empty.
func (h Host) Run(ctx context.Context, name string, args ...string) (string, error) {
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}
	out, r := Capture(ctx, name, args...)
	if r.Code != 0 {
		return "", &CommandError{Name: name, Args: args, Code: r.Code, Stderr: r.Stderr, Err: r.Err}
	}
	if out != "" {
		return out, nil
	}
	return r.Stderr, nil
}

// Capture runs a command and returns stdout as string, plus exit code and stderr.
func Capture(ctx context.Context, name string, args ...string) (string, Result) {
	echo(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), Result{Code: exitCode(ctx, err), Stderr: stderr.String(), Err: err}
}

// Debug reports whether executed commands should be echoed to stderr.
func Debug() bool {
	return os.Getenv("CYCLEKIT_DEBUG") == "1"
}

func echo(name string, args []string) {
	if Debug() {
		fmt.Fprintf(os.Stderr, "+ %s\n", strings.Join(append([]string{name}, args...), " "))
	}
}

func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() > 0 {
		return ee.ExitCode()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 124
	}
	return 1
}
