package cmd

import (
	"context"

	"grimm.is/pywall/internal/access"
)

// RunShell handles a context-menu action: -c "<allowAccess|denyAccess>[,<ruleType>]"
// followed by the selected path.
func RunShell(ctx context.Context, args []string, opts Options) error {
	var raw string
	var dryRun bool
	fs := newFlagSet("shell", &opts)
	fs.StringVarP(&raw, "command", "c", "", "Context-menu command")
	fs.BoolVarP(&dryRun, "dry-run", "n", false, "Print the firewall commands without running them")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Logger.Event("shell command received", "command", raw, "args", fs.Args())
	req, err := access.ParseShellCommand(raw, fs.Args())
	if err != nil {
		app.Logger.Exception(err, "shell command rejected")
		return err
	}
	req.DryRun = dryRun
	return app.Access(ctx, req)
}
