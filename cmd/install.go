package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RunInstall records the install directory so the context-menu callback can
// find the binary.
func RunInstall(_ context.Context, args []string, opts Options) error {
	var dir string
	fs := newFlagSet("install", &opts)
	fs.StringVar(&dir, "dir", "", "Install directory (default: folder of the running binary)")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		dir = filepath.Dir(exe)
	}

	app, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Marker.Write(dir); err != nil {
		return err
	}
	Printer.Fprintf(app.Out, "Install location recorded in %s\n", app.Marker.Path())
	return nil
}

// RunUninstall removes the install marker.
func RunUninstall(_ context.Context, args []string, opts Options) error {
	fs := newFlagSet("uninstall", &opts)
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	app, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Marker.Remove(); err != nil {
		return err
	}
	Printer.Fprintf(app.Out, "Install marker %s removed\n", app.Marker.Path())
	return nil
}
