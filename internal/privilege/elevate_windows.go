package privilege

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// relaunch asks UAC to run exe elevated. The elevated process does not
// inherit our environment, so env is not forwarded; the user's profile
// directories are the same under UAC.
func relaunch(exe string, args, _ []string) error {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = windows.EscapeArg(a)
	}

	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}
	params, err := windows.UTF16PtrFromString(strings.Join(quoted, " "))
	if err != nil {
		return err
	}
	var cwd *uint16
	if wd, err := os.Getwd(); err == nil {
		cwd, _ = windows.UTF16PtrFromString(wd)
	}
	return windows.ShellExecute(0, verb, file, params, cwd, windows.SW_NORMAL)
}
