package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/config"
)

// RunConfig dispatches the config subcommands.
func RunConfig(ctx context.Context, args []string, opts Options) error {
	if len(args) < 1 {
		printConfigUsage(errWriter(opts))
		return fmt.Errorf("missing config command")
	}

	switch args[0] {
	case "get":
		return runConfigGet(args[1:], opts)
	case "set":
		return runConfigSet(args[1:], opts)
	case "append":
		return runConfigAppend(args[1:], opts)
	case "remove":
		return runConfigRemove(args[1:], opts)
	case "show":
		return runConfigShow(args[1:], opts)
	case "validate":
		return runConfigValidate(args[1:], opts)
	case "edit":
		return runConfigEdit(ctx, args[1:], opts)
	case "path":
		return runConfigPath(args[1:], opts)
	case "watch":
		return runConfigWatch(ctx, args[1:], opts)
	default:
		Printer.Fprintf(errWriter(opts), "Unknown config command: %s\n\n", args[0])
		printConfigUsage(errWriter(opts))
		return fmt.Errorf("unknown config command %q", args[0])
	}
}

func printConfigUsage(w io.Writer) {
	Printer.Fprintf(w, `Usage: %s config <command> [options]

Commands:
  get SECTION KEY [--index N]    Print a value, or one element of a list
  set SECTION KEY VALUE          Replace a value
  append SECTION KEY VALUE...    Add values to a list, skipping duplicates
  remove SECTION KEY VALUE...    Remove values from a list
  show [-o hcl|json|yaml]        Print the whole document
  validate                       Repair the document and report changes
  edit                           Open the document in the default editor
  path                           Print the document location
  watch [--interval D]           Re-validate whenever the document changes
`, brand.BinaryName)
}

// sectionKey upper-cases the section so "filetype" and "FILETYPE" match.
func sectionKey(args []string) (string, string) {
	return strings.ToUpper(strings.TrimSpace(args[0])), strings.TrimSpace(args[1])
}

func runConfigGet(args []string, opts Options) error {
	var index string
	fs := newFlagSet("config get", &opts)
	fs.StringVarP(&index, "index", "i", "", "Element of a comma-separated list")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: %s config get SECTION KEY [--index N]", brand.BinaryName)
	}
	section, key := sectionKey(fs.Args())

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	var value string
	if index != "" {
		i, perr := config.ParseIndex(index)
		if perr != nil {
			return perr
		}
		value, err = app.Store.GetIndexed(section, key, i)
	} else {
		value, err = app.Store.Get(section, key)
	}
	if err != nil {
		return err
	}
	Printer.Fprintln(app.Out, value)
	return nil
}

func runConfigSet(args []string, opts Options) error {
	fs := newFlagSet("config set", &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: %s config set SECTION KEY VALUE", brand.BinaryName)
	}
	section, key := sectionKey(fs.Args())

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.Set(section, key, fs.Arg(2)); err != nil {
		return err
	}
	Printer.Fprintf(app.Out, "%s.%s = %s\n", section, key, fs.Arg(2))
	return nil
}

func runConfigAppend(args []string, opts Options) error {
	return runListEdit("append", args, opts, (*config.Store).AppendUnique, "Added %d value(s) to %s.%s\n")
}

func runConfigRemove(args []string, opts Options) error {
	return runListEdit("remove", args, opts, (*config.Store).RemoveValues, "Removed %d value(s) from %s.%s\n")
}

type listEdit func(s *config.Store, section, key string, values ...string) (int, error)

func runListEdit(name string, args []string, opts Options, edit listEdit, format string) error {
	fs := newFlagSet("config "+name, &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return fmt.Errorf("usage: %s config %s SECTION KEY VALUE...", brand.BinaryName, name)
	}
	section, key := sectionKey(fs.Args())

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := edit(app.Store, section, key, fs.Args()[2:]...)
	if err != nil {
		return err
	}
	Printer.Fprintf(app.Out, format, n, section, key)
	return nil
}

func runConfigShow(args []string, opts Options) error {
	var output string
	fs := newFlagSet("config show", &opts)
	fs.StringVarP(&output, "output", "o", config.FormatHCL, "Output format: hcl, json, yaml")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := app.Store.Render(output)
	if err != nil {
		return err
	}
	Printer.Fprintf(app.Out, "%s", data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		Printer.Fprintln(app.Out)
	}
	return nil
}

func runConfigValidate(args []string, opts Options) error {
	fs := newFlagSet("config validate", &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	printReport(app.Out, app.Store.Path(), app.Report)
	return nil
}

func runConfigPath(args []string, opts Options) error {
	fs := newFlagSet("config path", &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	Printer.Fprintln(outWriter(opts), path)
	return nil
}

// openerCommand returns the command that opens path with the desktop's
// default application.
func openerCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

func runConfigEdit(ctx context.Context, args []string, opts Options) error {
	fs := newFlagSet("config edit", &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	name, openArgs := openerCommand(runtime.GOOS, app.Store.Path())
	app.Logger.Event("opening configuration", "path", app.Store.Path(), "opener", name)
	if out, err := app.Runner.Run(ctx, name, openArgs...); err != nil {
		app.Logger.Exception(err, "could not open configuration", "output", strings.TrimSpace(string(out)))
		return fmt.Errorf("open %s: %w", app.Store.Path(), err)
	}
	return nil
}

func runConfigWatch(ctx context.Context, args []string, opts Options) error {
	interval := config.DefaultWatchInterval
	fs := newFlagSet("config watch", &opts)
	fs.DurationVar(&interval, "interval", interval, "Polling interval")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}

	app, err := open(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	store := config.New(app.Store.Path(),
		config.WithLogger(app.Logger.WithComponent("config")),
		config.WithReloadHook(func(r config.Report) {
			Printer.Fprintf(app.Out, "[%s] settings changed\n", time.Now().Format(time.TimeOnly))
			printReport(app.Out, app.Store.Path(), r)
		}),
	)

	Printer.Fprintf(app.Out, "Watching %s (Ctrl+C to stop)\n", store.Path())
	w := store.Watch(ctx, interval)
	<-ctx.Done()
	w.Stop()
	return nil
}

// printReport describes a validation pass.
func printReport(w io.Writer, path string, r config.Report) {
	Printer.Fprintf(w, "Settings: %s\n", path)
	if r.Created {
		Printer.Fprintf(w, "  created with default values\n")
	}
	if r.Recovered {
		Printer.Fprintf(w, "  unreadable document replaced with defaults\n")
	}
	if r.PreservedAs != "" {
		Printer.Fprintf(w, "  previous document kept as %s\n", r.PreservedAs)
	}
	if len(r.Added) > 0 {
		Printer.Fprintf(w, "  added %d missing key(s): %s\n", len(r.Added), strings.Join(r.Added, ", "))
	}
	if r.VersionUpdated {
		Printer.Fprintf(w, "  version updated\n")
	}
	if !r.Changed() {
		Printer.Fprintf(w, "  valid, no changes\n")
	}
}
