package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"grimm.is/pywall/cmd"
	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

type runFunc func(ctx context.Context, args []string, opts cmd.Options) error

var commands = map[string]struct {
	run  runFunc
	verb string
}{
	"access":    {cmd.RunAccess, "Access change"},
	"shell":     {cmd.RunShell, "Shell command"},
	"menu":      {cmd.RunMenu, "Context menu"},
	"config":    {cmd.RunConfig, "Config"},
	"check":     {cmd.RunCheck, "Check"},
	"install":   {cmd.RunInstall, "Install"},
	"uninstall": {cmd.RunUninstall, "Uninstall"},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name, args := os.Args[1], os.Args[2:]
	// Older releases took flags only, e.g. "-file X -allow true -rule_type in".
	if legacyName, legacyArgs, ok := cmd.TranslateLegacy(os.Args[1:]); ok {
		name, args = legacyName, legacyArgs
	}

	switch name {
	case "version", "--version":
		printer.Printf("%s %s (built %s)\n", brand.Name, brand.Version, brand.BuildTime)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	c, ok := commands[name]
	if !ok {
		printer.Printf("Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := c.run(ctx, args, cmd.Options{})
	stop()
	if err != nil {
		printer.Fprintf(os.Stderr, "%s failed: %v\n", c.verb, err)
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  access      Allow or deny network access for a file or folder
                --file PATH --allow true|false [--rule-type in|out|both] [--dry-run]
  shell       Run a context-menu action: -c "<allowAccess|denyAccess>[,<ruleType>]" PATH
  menu        Context-menu callback; relays to the installed binary
  config      Read, change, validate or watch the settings document
  check       Validate the settings and print the effective policy
  install     Record the install location for the context menu
  uninstall   Remove the recorded install location
  version     Print version information
  help        Show this help

Common options:
  --config PATH   Settings document (default %s)
  -v, --verbose   Debug logging on the console
  --notify        Also show desktop notifications

Run '%s <command> --help' for command options.
`, brand.Name, brand.Description, brand.BinaryName, brand.GetConfigPath(), brand.BinaryName)
}
