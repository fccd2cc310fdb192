// Package notification tells the user what an operation did.
//
// A [Dispatcher] fans a notification out to its channels: the console,
// where output always goes, and the desktop notification service, which
// honours the user's show_notifications setting. Blocking notifications wait
// for the user to acknowledge them on an interactive terminal.
package notification

import (
	"context"
	"strings"
	"sync"
	"time"

	"grimm.is/pywall/internal/logging"
)

// Level constants
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// sendTimeout bounds a single channel delivery.
const sendTimeout = 10 * time.Second

// Notification represents a notification event
type Notification struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier is the boundary the rest of the tool talks to.
type Notifier interface {
	// Notify shows a message and returns immediately.
	Notify(title, body string)
	// NotifyBlocking shows a message and waits until the user has seen it.
	// It reports whether the user acknowledged it.
	NotifyBlocking(title, body string) bool
}

// Channel delivers notifications somewhere.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// Prompter shows a message and waits for acknowledgement.
type Prompter func(n Notification) error

type route struct {
	channel Channel
	// level is the minimum level delivered; empty accepts all.
	level string
	// optional routes are skipped while notifications are disabled.
	optional bool
}

// Dispatcher manages notification channels and dispatching
type Dispatcher struct {
	logger *logging.Logger

	mu      sync.RWMutex
	routes  []route
	enabled bool
	prompt  Prompter

	// pending tracks deliveries on optional channels, which Send does not
	// wait for.
	pending sync.WaitGroup
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default().WithComponent("notification")
	}
	return &Dispatcher{
		logger:  logger,
		enabled: true,
	}
}

// AddChannel registers a channel that always receives notifications at or
// above level.
func (d *Dispatcher) AddChannel(ch Channel, level string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes = append(d.routes, route{channel: ch, level: level})
}

// AddOptionalChannel registers a channel that is muted by SetEnabled(false).
func (d *Dispatcher) AddOptionalChannel(ch Channel, level string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes = append(d.routes, route{channel: ch, level: level, optional: true})
}

// SetPrompter sets how blocking notifications are acknowledged. Without
// one, NotifyBlocking degrades to Notify.
func (d *Dispatcher) SetPrompter(p Prompter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompt = p
}

// SetEnabled turns optional channels on or off.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// Send dispatches a notification to all enabled and relevant channels. It
// waits for required channels only; see Wait.
func (d *Dispatcher) Send(n Notification) {
	d.mu.RLock()
	routes := append([]route(nil), d.routes...)
	enabled := d.enabled
	d.mu.RUnlock()

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}
	d.logger.Event("notification", "title", n.Title, "level", n.Level)

	var wg sync.WaitGroup
	for _, r := range routes {
		if r.optional && !enabled {
			continue
		}
		if !shouldSend(n.Level, r.level) {
			continue
		}

		if r.optional {
			d.pending.Add(1)
			go func(ch Channel) {
				defer d.pending.Done()
				d.deliver(ch, n)
			}(r.channel)
			continue
		}
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			d.deliver(ch, n)
		}(r.channel)
	}

	wg.Wait()
}

func (d *Dispatcher) deliver(ch Channel, n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := ch.Send(ctx, n); err != nil {
		d.logger.Error("failed to send notification",
			"channel", ch.Name(),
			"error", err)
	}
}

// Wait blocks until deliveries on optional channels have finished.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

// SendSimple is a helper for simple messages
func (d *Dispatcher) SendSimple(title, message, level string) {
	d.Send(Notification{
		Title:   title,
		Message: message,
		Level:   level,
	})
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(title, body string) {
	d.SendSimple(title, body, LevelInfo)
}

// Warn sends a warning-level notification.
func (d *Dispatcher) Warn(title, body string) {
	d.SendSimple(title, body, LevelWarning)
}

// NotifyBlocking implements Notifier.
func (d *Dispatcher) NotifyBlocking(title, body string) bool {
	d.mu.RLock()
	prompt := d.prompt
	d.mu.RUnlock()

	n := Notification{Title: title, Message: body, Level: LevelCritical, Timestamp: time.Now()}
	if prompt == nil {
		d.Send(n)
		return false
	}
	if err := prompt(n); err != nil {
		d.logger.Warn("blocking notification not acknowledged", "title", title, "error", err)
		d.Send(n)
		return false
	}
	d.logger.Event("notification acknowledged", "title", title)
	return true
}

// shouldSend checks if a message level meets the channel's minimum level
func shouldSend(msgLevel, chanLevel string) bool {
	// If channel has no level, accept all
	if chanLevel == "" {
		return true
	}

	levels := map[string]int{
		LevelInfo:     1,
		LevelWarning:  2,
		LevelCritical: 3,
	}

	m := levels[strings.ToLower(msgLevel)]
	c := levels[strings.ToLower(chanLevel)]

	return m >= c
}
