// Package privilege checks for administrative rights and relaunches the
// process elevated when they are missing.
//
// Elevation never happens in place: a new elevated process is started with
// the same arguments and the current one exits, so two processes never
// mutate firewall state side by side.
package privilege

import (
	"fmt"
	"os"

	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/logging"
)

// ElevatedEnv is set in the environment of a relaunched process. Seeing it
// while still unelevated means the elevation helper ran the command without
// granting rights, and relaunching again would loop.
const ElevatedEnv = "PYWALL_ELEVATED"

// ElevationDeniedError reports that elevation was refused or failed.
type ElevationDeniedError struct {
	Err error
}

func (e *ElevationDeniedError) Error() string {
	if e.Err == nil {
		return "elevation denied"
	}
	return fmt.Sprintf("elevation denied: %v", e.Err)
}

func (e *ElevationDeniedError) Unwrap() error { return e.Err }

// Gate answers whether the process is elevated and performs the relaunch.
type Gate struct {
	elevated   func() bool
	relaunch   func(exe string, args, env []string) error
	executable func() (string, error)
	exit       func(code int)
	args       []string
	logger     *logging.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithElevationCheck replaces the platform elevation check.
func WithElevationCheck(fn func() bool) Option {
	return func(g *Gate) { g.elevated = fn }
}

// WithRelauncher replaces the platform relaunch.
func WithRelauncher(fn func(exe string, args, env []string) error) Option {
	return func(g *Gate) { g.relaunch = fn }
}

// WithExit replaces os.Exit.
func WithExit(fn func(code int)) Option {
	return func(g *Gate) { g.exit = fn }
}

// WithArgs sets the arguments passed to the relaunched process. The default
// is os.Args[1:].
func WithArgs(args []string) Option {
	return func(g *Gate) { g.args = args }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// New returns a gate for the running process.
func New(opts ...Option) *Gate {
	g := &Gate{
		elevated:   isElevated,
		relaunch:   relaunch,
		executable: os.Executable,
		exit:       os.Exit,
		logger:     logging.WithComponent("privilege"),
	}
	if len(os.Args) > 1 {
		g.args = append([]string(nil), os.Args[1:]...)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsElevated reports whether the process has administrative rights.
func (g *Gate) IsElevated() bool {
	return g.elevated()
}

// ElevateAndRestart starts an elevated copy of the process with the same
// arguments and exits. It returns only when the relaunch failed, with an
// *ElevationDeniedError; nothing may be attempted unelevated afterwards.
func (g *Gate) ElevateAndRestart() error {
	if os.Getenv(ElevatedEnv) == "1" {
		err := &ElevationDeniedError{Err: fmt.Errorf("relaunched process is still not elevated")}
		g.logger.Exception(err, "refusing to relaunch again")
		return err
	}

	exe, err := g.executable()
	if err != nil {
		g.logger.Exception(err, "cannot locate executable for relaunch")
		return &ElevationDeniedError{Err: err}
	}

	env := []string{
		ElevatedEnv + "=1",
		brand.ConfigEnvPrefix + "_CONFIG_DIR=" + brand.GetConfigDir(),
	}
	g.logger.Event("requesting elevation", "executable", exe, "args", g.args)
	if err := g.relaunch(exe, g.args, env); err != nil {
		g.logger.Exception(err, "failed to relaunch with elevated rights")
		return &ElevationDeniedError{Err: err}
	}

	g.logger.Event("elevated process started, exiting")
	g.exit(0)
	return nil
}
