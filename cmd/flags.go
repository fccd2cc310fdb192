package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// newFlagSet returns a flag set carrying the flags every command accepts.
// Underscores in flag names are read as dashes so --rule_type still works.
func newFlagSet(name string, opts *Options) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(errWriter(*opts))
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Settings document path")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Debug logging on the console")
	fs.StringVar(&opts.MarkerPath, "marker", opts.MarkerPath, "Install marker path")
	_ = fs.MarkHidden("marker")
	fs.BoolVar(&opts.Desktop, "notify", opts.Desktop, "Also show desktop notifications")
	return fs
}

// parseFlags parses args and reports whether help was requested.
func parseFlags(fs *pflag.FlagSet, args []string) (bool, error) {
	err := fs.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		return true, nil
	}
	return false, err
}

func errWriter(opts Options) io.Writer {
	if opts.Err != nil {
		return opts.Err
	}
	return os.Stderr
}

func outWriter(opts Options) io.Writer {
	if opts.Out != nil {
		return opts.Out
	}
	return os.Stdout
}

// legacyFlags maps the single-dash flags of older releases to their
// current spelling.
var legacyFlags = map[string]string{
	"-file":      "--file",
	"-allow":     "--allow",
	"-rule_type": "--rule-type",
	"-rule-type": "--rule-type",
}

// TranslateLegacy rewrites an old-style invocation, such as
// "-file X -allow true -rule_type in" or "-c allowAccess X", into a
// command name and its arguments. ok is false when args are not in the old
// form.
func TranslateLegacy(args []string) (command string, rest []string, ok bool) {
	if len(args) == 0 || !strings.HasPrefix(args[0], "-") || strings.HasPrefix(args[0], "--") {
		return "", nil, false
	}
	if args[0] == "-h" {
		return "", nil, false
	}

	for _, a := range args {
		switch a {
		case "-install":
			return "install", nil, true
		case "-uninstall":
			return "uninstall", nil, true
		case "-config":
			return "config", []string{"edit"}, true
		}
	}

	command = "access"
	for _, a := range args {
		name, value, hasValue := strings.Cut(a, "=")
		if name == "-c" {
			command = "shell"
		}
		if mapped, found := legacyFlags[name]; found {
			if hasValue {
				rest = append(rest, mapped+"="+value)
				continue
			}
			rest = append(rest, mapped)
			continue
		}
		rest = append(rest, a)
	}
	return command, rest, true
}
