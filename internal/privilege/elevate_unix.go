//go:build !windows

package privilege

import (
	"errors"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// helpers are tried in order to obtain root.
var helpers = []string{"sudo", "pkexec"}

func isElevated() bool {
	return unix.Geteuid() == 0
}

// relaunch replaces the current process image with
// "<helper> env VAR=... exe args...". On success it does not return.
func relaunch(exe string, args, env []string) error {
	var helper string
	for _, h := range helpers {
		if p, err := exec.LookPath(h); err == nil {
			helper = p
			break
		}
	}
	if helper == "" {
		return errors.New("no elevation helper (sudo or pkexec) found")
	}

	argv := []string{helper, "env"}
	argv = append(argv, env...)
	argv = append(argv, exe)
	argv = append(argv, args...)
	return unix.Exec(helper, argv, os.Environ())
}
