package firewall

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"grimm.is/pywall/internal/host"
	"grimm.is/pywall/internal/logging"
)

// DefaultCommandTimeout bounds a single firewall command.
const DefaultCommandTimeout = 30 * time.Second

// Outcome is the result of one command.
type Outcome struct {
	Command  Command
	Output   string
	Duration time.Duration
	// Err is nil, a *CommandFailedError or an *UnexpectedError.
	Err error
}

// OK reports whether the command succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Executor runs firewall commands.
type Executor struct {
	runner  host.Runner
	timeout time.Duration
	logger  *logging.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the per-command timeout.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithExecutorLogger sets the logger.
func WithExecutorLogger(l *logging.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates an executor. A nil runner selects host.ExecRunner.
func NewExecutor(runner host.Runner, opts ...ExecutorOption) *Executor {
	if runner == nil {
		runner = host.ExecRunner{}
	}
	e := &Executor{
		runner:  runner,
		timeout: DefaultCommandTimeout,
		logger:  logging.WithComponent("firewall"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs cmds in order. A failed command does not stop the rest; the
// returned slice has one outcome per command.
func (e *Executor) Execute(ctx context.Context, cmds []Command) []Outcome {
	out := make([]Outcome, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, e.run(ctx, c))
	}
	return out
}

func (e *Executor) run(ctx context.Context, c Command) Outcome {
	line := c.String()
	e.logger.Event("executing command", "command", line)

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.runner.Run(cctx, c.Name, c.Args...)
	o := Outcome{
		Command:  c,
		Output:   strings.TrimSpace(string(raw)),
		Duration: time.Since(start),
	}
	if o.Output != "" {
		e.logger.Debug("command output", "command", line, "output", o.Output)
	}
	if err == nil {
		return o
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		o.Err = &UnexpectedError{Command: line, Detail: "cancelled", Err: ctx.Err()}
	case errors.Is(cctx.Err(), context.DeadlineExceeded):
		o.Err = &CommandFailedError{Command: line, ExitCode: -1, Output: o.Output, TimedOut: true}
	case errors.As(err, &exitErr):
		if c.TolerateMissing && noMatchingRule(o.Output) {
			e.logger.Event("no matching rule to delete", "command", line)
			return o
		}
		o.Err = &CommandFailedError{Command: line, ExitCode: exitErr.ExitCode(), Output: o.Output}
	default:
		o.Err = &UnexpectedError{Command: line, Detail: err.Error(), Err: err}
	}

	e.logger.Exception(o.Err, "firewall command failed", "command", line)
	return o
}

func noMatchingRule(output string) bool {
	return strings.Contains(strings.ToLower(output), "no rules match")
}
