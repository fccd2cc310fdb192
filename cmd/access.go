package cmd

import (
	"context"
	"fmt"

	"grimm.is/pywall/internal/access"
	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/firewall"
)

// RunAccess allows or denies network access for a file or a directory of
// files.
func RunAccess(ctx context.Context, args []string, opts Options) error {
	var (
		file     string
		allow    string
		ruleType string
		dryRun   bool
	)
	fs := newFlagSet("access", &opts)
	fs.StringVarP(&file, "file", "f", "", "Target file or directory")
	fs.StringVar(&allow, "allow", "", "true to allow access, false to deny it")
	fs.StringVarP(&ruleType, "rule-type", "r", string(firewall.RuleBoth), "Rule direction: in, out or both")
	fs.BoolVarP(&dryRun, "dry-run", "n", false, "Print the firewall commands without running them")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	if file == "" && fs.NArg() > 0 {
		file = fs.Arg(0)
	}
	if file == "" || allow == "" {
		return fmt.Errorf("usage: %s access --file PATH --allow true|false [--rule-type in|out|both] [--dry-run]", brand.BinaryName)
	}
	allowed, err := parseBool(allow)
	if err != nil {
		return fmt.Errorf("--allow: %w", err)
	}

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	rt, _ := firewall.ParseRuleType(ruleType)
	return app.Access(ctx, access.Request{
		Path:     file,
		Action:   firewall.ActionFromAllow(allowed),
		RuleType: rt,
		DryRun:   dryRun,
	})
}
