// Package execution runs external commands for the daemon, clipboard and
// notification collaborators.
package execution

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultTimeout applies when a Command has no timeout of its own
const DefaultTimeout = 30 * time.Second

// Command is one external program invocation
type Command struct {
	Name    string
	Args    []string
	Stdin   []byte
	Timeout time.Duration

	// DiscardOutput leaves stdout and stderr unattached. Needed for helpers
	// such as xclip that fork a child which keeps the selection alive.
	DiscardOutput bool
}

// Result holds the captured output of a finished command
type Result struct {
	Stdout   []byte
	Stderr   string
	ExitCode int
}

// Text returns stdout as trimmed text
func (r Result) Text() string {
	return strings.TrimSpace(string(r.Stdout))
}

// Runner executes external commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a new command runner
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{
		logger: logging.Component(logger, "execution.runner"),
	}
}

// LookPath reports where name is installed
func (e *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd and captures its output. A non-zero exit status, a
// timeout or a missing binary all return an error alongside whatever
// output was captured.
func (e *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{}, errors.New(errors.ErrInvalidInput, "command requires a name")
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logging.LogCommand(e.logger, cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}

	// Capture output
	var stdout, stderr bytes.Buffer
	if !cmd.DiscardOutput {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	start := time.Now()
	err := c.Run()
	result := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.String(),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	if stderr.Len() > 0 {
		e.logger.Debug().
			Str("command", cmd.Name).
			Str("output", stderr.String()).
			Msg("Command stderr")
	}

	if err == nil {
		e.logger.Debug().
			Str("command", cmd.Name).
			Dur("duration", time.Since(start)).
			Msg("Command executed successfully")
		return result, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return result, errors.Wrapf(err, errors.ErrCommandTimeout,
			"%s timed out after %s", cmd.Name, timeout).
			WithDetail("command", cmd.Name)
	}

	if stderrors.Is(err, exec.ErrNotFound) {
		return result, errors.Wrapf(err, errors.ErrCommandExecute,
			"%s is not installed", cmd.Name).
			WithDetail("command", cmd.Name)
	}

	e.logger.Debug().
		Err(err).
		Str("command", cmd.Name).
		Strs("args", cmd.Args).
		Int("exitCode", result.ExitCode).
		Str("stderr", result.Stderr).
		Msg("Command execution failed")

	message := strings.TrimSpace(result.Stderr)
	if message == "" {
		message = "failed to execute " + cmd.Name
	}
	return result, errors.Wrap(err, errors.ErrCommandExecute, message).
		WithDetail("command", cmd.Name).
		WithDetail("exitCode", result.ExitCode)
}
