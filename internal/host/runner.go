// Package host wraps process execution so the firewall, notification and
// shell-menu layers can be tested without spawning real programs.
package host

import (
	"context"
	"os/exec"
)

// Runner executes external commands.
type Runner interface {
	// Run executes name with args and returns its combined stdout/stderr.
	// A non-zero exit status is reported as an *exec.ExitError.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Run executes a command and captures its combined output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)
	return cmd.CombinedOutput()
}
