package firewall

import "fmt"

// CommandFailedError reports a command that ran and failed, or did not
// finish within the executor's timeout.
type CommandFailedError struct {
	Command  string
	ExitCode int
	Output   string
	TimedOut bool
}

func (e *CommandFailedError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("command timed out: %s", e.Command)
	}
	if e.Output != "" {
		return fmt.Sprintf("command failed (exit %d): %s: %s", e.ExitCode, e.Command, e.Output)
	}
	return fmt.Sprintf("command failed (exit %d): %s", e.ExitCode, e.Command)
}

// UnexpectedError reports a command that could not be run at all.
type UnexpectedError struct {
	Command string
	Detail  string
	Err     error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error running %s: %s", e.Command, e.Detail)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
