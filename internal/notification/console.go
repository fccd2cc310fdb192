package notification

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	infoColor    = lipgloss.Color("#17A2B8")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#DC3545")

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)
)

func levelColor(level string) lipgloss.Color {
	switch level {
	case LevelWarning:
		return warningColor
	case LevelCritical:
		return dangerColor
	default:
		return infoColor
	}
}

// ConsoleChannel renders notifications as a bordered box.
type ConsoleChannel struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleChannel writes to out.
func NewConsoleChannel(out io.Writer) *ConsoleChannel {
	return &ConsoleChannel{out: out}
}

func (c *ConsoleChannel) Name() string { return "console" }

func (c *ConsoleChannel) Send(_ context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, Render(n))
	return err
}

// Render formats n the way the console channel prints it.
func Render(n Notification) string {
	color := levelColor(n.Level)
	title := titleStyle.Foreground(color).Render(n.Title)
	return boxStyle.BorderForeground(color).Render(title + "\n" + n.Message)
}

// FormPrompter shows n as a huh note and waits for the user to confirm it.
func FormPrompter(n Notification) error {
	note := huh.NewNote().
		Title(n.Title).
		Description(n.Message).
		Next(true).
		NextLabel("OK")
	return huh.NewForm(huh.NewGroup(note)).WithTheme(huh.ThemeBase16()).Run()
}
