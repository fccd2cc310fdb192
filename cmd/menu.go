package cmd

import (
	"context"
	"errors"
	"fmt"

	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/install"
)

// RunMenu is the callback registered with the desktop context menu. It
// finds the installed binary through the install marker and hands the
// selection to its shell command.
func RunMenu(ctx context.Context, args []string, opts Options) error {
	fs := newFlagSet("menu", &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: %s menu \"<allowAccess|denyAccess>[,<ruleType>]\" PATH", brand.BinaryName)
	}
	raw, path := fs.Arg(0), fs.Arg(1)

	app, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	exe, err := app.Marker.ResolveExecutable()
	if err != nil {
		var nf *install.NotFoundError
		if errors.As(err, &nf) {
			app.Notifier.NotifyBlocking(brand.Name+" application not found",
				fmt.Sprintf("Run %s once from its install folder, then try again.", brand.BinaryName))
		}
		app.Logger.Exception(err, "context menu could not locate the executable")
		return err
	}

	relay := []string{"shell", "--config", app.Store.Path(), "-c", raw, "--", path}
	app.Logger.Event("relaying context-menu action", "executable", exe, "command", raw, "path", path)
	out, err := app.Runner.Run(ctx, exe, relay...)
	if len(out) > 0 {
		Printer.Fprintf(app.Out, "%s", out)
	}
	if err != nil {
		app.Logger.Exception(err, "context-menu relay failed", "executable", exe)
		return fmt.Errorf("run %s: %w", exe, err)
	}
	return nil
}
