package testutil

import (
	"os"
	"runtime"
	"testing"
)

// RequireFirewall skips the test unless PYWALL_FIREWALL_TEST is set on a
// Windows host. Tests behind it add and remove real firewall rules and need
// an elevated shell.
func RequireFirewall(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "windows" {
		t.Skip("Skipping test: requires Windows Firewall")
	}
	if os.Getenv("PYWALL_FIREWALL_TEST") == "" {
		t.Skip("Skipping test: requires PYWALL_FIREWALL_TEST environment")
	}
}
