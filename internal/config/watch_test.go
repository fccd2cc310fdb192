package config

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRepairsExternalEdit(t *testing.T) {
	reports := make(chan Report, 4)
	s := newTestStore(t, WithReloadHook(func(r Report) { reports <- r }))
	require.NoError(t, s.EnsureDefault())

	w := s.Watch(context.Background(), 10*time.Millisecond)
	defer w.Stop()

	edit := s.Path() + ".edit"
	writeFile(t, edit, "FILETYPE {\n  accepted_types = \".msi\"\n}\n")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(edit, future, future))
	require.NoError(t, os.Rename(edit, s.Path()))

	var rep Report
	require.Eventually(t, func() bool {
		select {
		case rep = <-reports:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, rep.Written)
	assert.Contains(t, rep.Added, "GUI.stylesheet")

	v, err := s.Get(SectionFiletype, KeyAcceptedTypes)
	require.NoError(t, err)
	assert.Equal(t, ".msi", v)

	v, err = s.Get(SectionGUI, KeyStylesheet)
	require.NoError(t, err)
	assert.Equal(t, "dark_red.xml", v)
}

func TestWatcherRetriesAfterFailedValidation(t *testing.T) {
	reports := make(chan Report, 4)
	s := newTestStore(t, WithReloadHook(func(r Report) { reports <- r }))
	require.NoError(t, s.EnsureDefault())

	var failing atomic.Bool
	var failures atomic.Int32
	failing.Store(true)
	s.rename = func(oldpath, newpath string) error {
		if failing.Load() {
			failures.Add(1)
			return errors.New("disk full")
		}
		return os.Rename(oldpath, newpath)
	}

	w := s.Watch(context.Background(), 10*time.Millisecond)
	defer w.Stop()

	// Missing keys force a repair write, which fails while failing is set.
	edit := s.Path() + ".edit"
	writeFile(t, edit, "FILETYPE {\n  accepted_types = \".msi\"\n}\n")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(edit, future, future))
	require.NoError(t, os.Rename(edit, s.Path()))

	require.Eventually(t, func() bool { return failures.Load() >= 2 },
		2*time.Second, 5*time.Millisecond, "validation was not retried")
	select {
	case <-reports:
		t.Fatal("reload hook fired for a failed validation")
	default:
	}

	failing.Store(false)

	var rep Report
	require.Eventually(t, func() bool {
		select {
		case rep = <-reports:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, rep.Written)
	assert.Contains(t, rep.Added, "GUI.stylesheet")

	v, err := s.Get(SectionGUI, KeyStylesheet)
	require.NoError(t, err)
	assert.Equal(t, "dark_red.xml", v)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	w := s.Watch(ctx, 0)
	assert.Equal(t, DefaultWatchInterval, w.interval)

	cancel()
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	w.Stop()
}
