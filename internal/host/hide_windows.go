//go:build windows

package host

import (
	"os/exec"
	"syscall"
)

// hideWindow keeps netsh and powershell from flashing a console window
// when invoked from the Explorer context menu.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
