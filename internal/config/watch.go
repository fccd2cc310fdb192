package config

import (
	"context"
	"os"
	"sync"
	"time"
)

// DefaultWatchInterval is how often the watcher checks the document.
const DefaultWatchInterval = 2 * time.Second

// Watcher polls the document's modification time and re-validates it after
// an external edit.
type Watcher struct {
	store    *Store
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Watch starts polling in the background. A non-positive interval selects
// DefaultWatchInterval. The watcher runs until ctx is cancelled or Stop is
// called.
func (s *Store) Watch(ctx context.Context, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		store:    s,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	last, _ := w.modTime()
	go w.run(ctx, last)
	return w
}

// Stop ends polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.once.Do(w.cancel)
	<-w.done
}

// Done is closed once the loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context, last time.Time) {
	defer close(w.done)

	log := w.store.logger
	log.Debug("watching config", "path", w.store.path, "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("config watcher stopped")
			return
		case <-ticker.C:
		}

		mt, err := w.modTime()
		if err != nil {
			// Keep the last known time so the next successful stat
			// still sees the change.
			log.Exception(err, "config stat failed")
			continue
		}
		if mt.Equal(last) {
			continue
		}

		log.Event("config changed on disk, validating", "path", w.store.path)
		rep, err := w.store.Validate()
		if err != nil {
			log.Exception(err, "config validation after change failed")
			continue
		}
		// Our own repair write bumps the mtime again; take the post-repair
		// value so it does not trigger another pass.
		if mt, err = w.modTime(); err == nil {
			last = mt
		}
		if w.store.onReload != nil {
			w.store.onReload(rep)
		}
	}
}

func (w *Watcher) modTime() (time.Time, error) {
	fi, err := os.Stat(w.store.path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
