package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"grimm.is/pywall/internal/access"
	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/config"
	"grimm.is/pywall/internal/firewall"
	"grimm.is/pywall/internal/host"
	"grimm.is/pywall/internal/i18n"
	"grimm.is/pywall/internal/install"
	"grimm.is/pywall/internal/logging"
	"grimm.is/pywall/internal/notification"
	"grimm.is/pywall/internal/privilege"
	"grimm.is/pywall/internal/targets"
)

// Printer formats CLI output for the user's locale.
var Printer = i18n.NewCLIPrinter()

// Options control how the application is assembled. Zero values select the
// production collaborators.
type Options struct {
	ConfigPath string
	MarkerPath string
	Out        io.Writer
	Err        io.Writer
	Runner     host.Runner
	Gate       access.Gate
	// Interactive enables blocking prompts; nil detects a terminal.
	Interactive *bool
	// Desktop enables desktop notifications, still subject to the
	// UI.show_notifications setting.
	Desktop bool
	Verbose bool
}

// App is the assembled tool for one CLI invocation.
type App struct {
	Store    *config.Store
	Logger   *logging.Logger
	Notifier *notification.Dispatcher
	Marker   *install.Marker
	Runner   host.Runner
	Gate     access.Gate
	Out      io.Writer
	Err      io.Writer
	// Report is the result of the startup validation pass.
	Report config.Report
}

// ErrFatalConfig is returned when the settings document cannot be made
// usable.
var ErrFatalConfig = errors.New("configuration could not be repaired")

// Bootstrap loads and repairs the settings, sets up logging from them and
// wires the collaborators.
func Bootstrap(opts Options) (*App, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Runner == nil {
		opts.Runner = host.ExecRunner{}
	}

	logging.SetPrefix(processPrefix())
	level := consoleLevel(opts.Verbose)
	bootLogger := logging.New(logging.Config{Level: level, Output: opts.Err})
	notifier := newNotifier(bootLogger, opts)

	// The first store only exists to read the logging settings; it is
	// replaced once the configured logger is available.
	boot := config.New(opts.ConfigPath, config.WithLogger(bootLogger.WithComponent("config")))
	if !boot.Exists() {
		if err := boot.EnsureDefault(); err != nil {
			notifier.NotifyBlocking("Configuration error",
				fmt.Sprintf("Could not create %s: %v", opts.ConfigPath, err))
			return nil, fmt.Errorf("%w: %v", ErrFatalConfig, err)
		}
	}
	report, err := boot.Validate()
	if err != nil {
		notifier.NotifyBlocking("Configuration error",
			fmt.Sprintf("%s is invalid and could not be fixed: %v", opts.ConfigPath, err))
		return nil, fmt.Errorf("%w: %v", ErrFatalConfig, err)
	}

	logger := logging.New(logConfig(boot, level, opts.Err))
	logging.SetDefault(logger)

	app := &App{
		Store:    config.New(opts.ConfigPath, config.WithLogger(logger.WithComponent("config"))),
		Logger:   logger,
		Notifier: newNotifier(logger, opts),
		Marker:   install.NewMarker(opts.MarkerPath),
		Runner:   opts.Runner,
		Gate:     opts.Gate,
		Out:      opts.Out,
		Err:      opts.Err,
		Report:   report,
	}
	if show, err := app.Store.GetBool(config.SectionUI, config.KeyShowNotifications); err == nil {
		app.Notifier.SetEnabled(show)
	}
	if app.Gate == nil {
		app.Gate = privilege.New(privilege.WithLogger(logger.WithComponent("privilege")))
	}
	return app, nil
}

// processPrefix marks console lines written by the elevated relaunch so
// they can be told apart from the parent's.
func processPrefix() string {
	if os.Getenv(privilege.ElevatedEnv) == "1" {
		return brand.LowerName + "-elevated"
	}
	return brand.LowerName
}

func consoleLevel(verbose bool) logging.Level {
	if verbose {
		return logging.LevelDebug
	}
	if v := os.Getenv(brand.ConfigEnvPrefix + "_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return logging.LevelWarn
}

func newNotifier(logger *logging.Logger, opts Options) *notification.Dispatcher {
	d := notification.NewDispatcher(logger.WithComponent("notification"))
	d.AddChannel(notification.NewConsoleChannel(opts.Err), "")
	if opts.Desktop {
		d.AddOptionalChannel(notification.NewDesktopChannel(opts.Runner), "")
	}
	if interactive(opts) {
		d.SetPrompter(notification.FormPrompter)
	}
	return d
}

// logConfig enables the file sinks the DEBUG section asks for. Logs live
// next to the settings document unless PYWALL_LOG_DIR says otherwise.
func logConfig(store *config.Store, level logging.Level, out io.Writer) logging.Config {
	cfg := logging.Config{Level: level, Output: out}
	logDir := filepath.Join(filepath.Dir(store.Path()), brand.LogDirName)
	if os.Getenv(brand.ConfigEnvPrefix+"_LOG_DIR") != "" {
		logDir = brand.GetLogDir()
	}
	if on, err := store.GetBool(config.SectionDebug, config.KeyCreateLogs); err == nil && on {
		cfg.ActionLog = filepath.Join(logDir, "actions.log")
	}
	if on, err := store.GetBool(config.SectionDebug, config.KeyCreateExceptionLogs); err == nil && on {
		cfg.ExceptionLog = filepath.Join(logDir, "exceptions.log")
	}
	return cfg
}

func interactive(opts Options) bool {
	if opts.Interactive != nil {
		return *opts.Interactive
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Close releases log files.
func (a *App) Close() error {
	a.Notifier.Wait()
	return a.Logger.Close()
}

// open bootstraps the app for commands that should also record the install
// location.
func open(opts Options) (*App, error) {
	app, err := Bootstrap(opts)
	if err != nil {
		return nil, err
	}
	app.RecordInstall()
	return app, nil
}

// RecordInstall writes the install marker on first run.
func (a *App) RecordInstall() {
	exe, err := os.Executable()
	if err != nil {
		a.Logger.Exception(err, "cannot determine executable path")
		return
	}
	if wrote, err := a.Marker.EnsureRecorded(exe); err != nil {
		a.Logger.Exception(err, "failed to record install location")
	} else if wrote {
		a.Logger.Event("existing install not detected, current folder saved", "dir", filepath.Dir(exe))
	}
}

// Orchestrator assembles the access orchestrator.
func (a *App) Orchestrator() *access.Orchestrator {
	return access.New(access.Deps{
		Policy:   func() (targets.Policy, error) { return access.PolicyFromStore(a.Store) },
		Resolver: targets.NewResolver(targets.WithLogger(a.Logger.WithComponent("targets"))),
		Builder:  firewall.NewBuilder(),
		Gate:     a.Gate,
		Executor: firewall.NewExecutor(a.Runner, firewall.WithExecutorLogger(a.Logger.WithComponent("firewall"))),
		Notifier: a.Notifier,
		Logger:   a.Logger.WithComponent("access"),
	})
}

// Access runs one request and prints the per-file result.
func (a *App) Access(ctx context.Context, req access.Request) error {
	res, err := a.Orchestrator().Access(ctx, req)
	switch res.Outcome {
	case access.OutcomePlanned:
		Printer.Fprintf(a.Out, "Dry run: %d file(s) in %s\n", len(res.Files), req.Path)
		for _, c := range res.Commands() {
			Printer.Fprintln(a.Out, c.String())
		}
	case access.OutcomeSuccess, access.OutcomePartialFailure:
		for _, f := range res.Files {
			status := "ok"
			if !f.Succeeded {
				status = "FAILED"
			}
			Printer.Fprintf(a.Out, "%-6s %s\n", status, f.File.Path)
			for _, d := range f.Directions {
				if ferr, ok := f.Failures[d]; ok {
					Printer.Fprintf(a.Out, "       %s: %v\n", d, ferr)
				}
			}
		}
	}
	return err
}

// parseBool accepts the spellings the CLI has always accepted.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q (want true or false)", s)
}
