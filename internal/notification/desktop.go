package notification

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/host"
)

// DesktopChannel raises a native desktop notification through the
// platform's notification tool.
type DesktopChannel struct {
	runner host.Runner
	goos   string
}

// NewDesktopChannel uses runner to invoke the notification tool.
func NewDesktopChannel(runner host.Runner) *DesktopChannel {
	if runner == nil {
		runner = host.ExecRunner{}
	}
	return &DesktopChannel{runner: runner, goos: runtime.GOOS}
}

func (c *DesktopChannel) Name() string { return "desktop" }

func (c *DesktopChannel) Send(ctx context.Context, n Notification) error {
	name, args, err := desktopCommand(c.goos, n)
	if err != nil {
		return err
	}
	if out, err := c.runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func desktopCommand(goos string, n Notification) (string, []string, error) {
	switch goos {
	case "windows":
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", balloonScript(n)}, nil
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s",
			appleQuote(n.Message), appleQuote(n.Title))
		return "osascript", []string{"-e", script}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		args := []string{"--app-name=" + brand.Name}
		if n.Level == LevelCritical {
			args = append(args, "--urgency=critical")
		}
		return "notify-send", append(args, n.Title, n.Message), nil
	default:
		return "", nil, fmt.Errorf("desktop notifications unsupported on %s", goos)
	}
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func balloonScript(n Notification) string {
	icon := "Info"
	switch n.Level {
	case LevelWarning:
		icon = "Warning"
	case LevelCritical:
		icon = "Error"
	}
	return strings.Join([]string{
		"Add-Type -AssemblyName System.Windows.Forms",
		"$n = New-Object System.Windows.Forms.NotifyIcon",
		"$n.Icon = [System.Drawing.SystemIcons]::Shield",
		"$n.Visible = $true",
		fmt.Sprintf("$n.ShowBalloonTip(5000, %s, %s, [System.Windows.Forms.ToolTipIcon]::%s)",
			psQuote(n.Title), psQuote(n.Message), icon),
		"Start-Sleep -Seconds 5",
		"$n.Dispose()",
	}, "; ")
}
