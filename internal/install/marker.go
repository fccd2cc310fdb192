// Package install records where the binary lives so the shell context-menu
// callback can find it again.
//
// The marker is a plain text file in the config directory holding one
// absolute directory path.
package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/logging"
)

// NotFoundError reports a missing marker or a marker pointing at a
// directory that no longer holds the executable.
type NotFoundError struct {
	Path string
	// Stale is set when the marker existed but its target was gone. The
	// marker has been removed in that case.
	Stale bool
}

func (e *NotFoundError) Error() string {
	if e.Stale {
		return fmt.Sprintf("executable %s not found at recorded location", e.Path)
	}
	return fmt.Sprintf("install marker %s not found", e.Path)
}

// Marker reads and writes the install-location marker.
type Marker struct {
	path   string
	exe    string
	logger *logging.Logger
}

// NewMarker returns a marker stored at path; empty selects the default
// location in the config directory.
func NewMarker(path string) *Marker {
	if path == "" {
		path = brand.GetMarkerPath()
	}
	return &Marker{
		path:   path,
		exe:    brand.ExecutableName(),
		logger: logging.WithComponent("install"),
	}
}

// Path returns the marker location.
func (m *Marker) Path() string {
	return m.path
}

// Write records dir as the install directory.
func (m *Marker) Write(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve install dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	if err := os.WriteFile(m.path, []byte(abs), 0644); err != nil {
		return fmt.Errorf("write install marker: %w", err)
	}
	m.logger.Event("install marker written", "path", m.path, "dir", abs)
	return nil
}

// Read returns the recorded install directory.
func (m *Marker) Read() (string, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &NotFoundError{Path: m.path}
	}
	if err != nil {
		return "", fmt.Errorf("read install marker: %w", err)
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return "", &NotFoundError{Path: m.path}
	}
	return dir, nil
}

// ResolveExecutable returns the binary inside the recorded directory. A
// marker whose binary is gone is deleted so the next run records a fresh
// location.
func (m *Marker) ResolveExecutable() (string, error) {
	dir, err := m.Read()
	if err != nil {
		return "", err
	}
	exe := filepath.Join(dir, m.exe)
	if fi, err := os.Stat(exe); err == nil && fi.Mode().IsRegular() {
		return exe, nil
	}

	m.logger.Event("recorded executable missing, removing marker", "executable", exe)
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Exception(err, "could not remove stale install marker")
	}
	return "", &NotFoundError{Path: exe, Stale: true}
}

// EnsureRecorded writes the directory of exe if no marker exists yet and
// reports whether it wrote one.
func (m *Marker) EnsureRecorded(exe string) (bool, error) {
	_, err := m.Read()
	if err == nil {
		return false, nil
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return false, err
	}
	if err := m.Write(filepath.Dir(exe)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the marker. A missing marker is not an error.
func (m *Marker) Remove() error {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove install marker: %w", err)
	}
	m.logger.Event("install marker removed", "path", m.path)
	return nil
}
