package cmd

import (
	"context"

	"grimm.is/pywall/internal/access"
	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/config"
)

// RunCheck validates the settings document and prints what was repaired
// along with the effective target policy.
func RunCheck(_ context.Context, args []string, opts Options) error {
	fs := newFlagSet("check", &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	printReport(app.Out, app.Store.Path(), app.Report)

	policy, err := access.PolicyFromStore(app.Store)
	if err != nil {
		return err
	}
	version, _ := app.Store.Get(config.SectionDebug, config.KeyVersion)
	Printer.Fprintf(app.Out, "Version: %s (build %s)\n", version, brand.Version)
	Printer.Fprintf(app.Out, "Accepted types: %s\n", config.List(policy.AcceptedSuffixes))
	Printer.Fprintf(app.Out, "Blacklisted names: %s\n", config.List(policy.BlacklistedStems))
	Printer.Fprintf(app.Out, "Recursive: %t, exact suffix: %t\n", policy.Recursive, policy.ExactSuffix)
	Printer.Fprintf(app.Out, "Elevated: %t\n", app.Gate.IsElevated())
	return nil
}
