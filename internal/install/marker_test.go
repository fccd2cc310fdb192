package install

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/pywall/internal/brand"
)

func TestMarkerRoundTrip(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "cfg", "Executable.txt"))
	_, err := m.Read()
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.False(t, nf.Stale)

	installDir := t.TempDir()
	require.NoError(t, m.Write(installDir))

	dir, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, installDir, dir)
}

func TestResolveExecutable(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "Executable.txt"))
	installDir := t.TempDir()
	exe := filepath.Join(installDir, brand.ExecutableName())
	require.NoError(t, os.WriteFile(exe, []byte("bin"), 0755))
	require.NoError(t, m.Write(installDir))

	got, err := m.ResolveExecutable()
	require.NoError(t, err)
	assert.Equal(t, exe, got)
}

func TestResolveExecutableRemovesStaleMarker(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "Executable.txt"))
	require.NoError(t, m.Write(t.TempDir()))

	_, err := m.ResolveExecutable()
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.True(t, nf.Stale)

	_, statErr := os.Stat(m.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnsureRecorded(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "Executable.txt"))
	exe := filepath.Join(t.TempDir(), brand.ExecutableName())

	wrote, err := m.EnsureRecorded(exe)
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = m.EnsureRecorded("/elsewhere/" + brand.ExecutableName())
	require.NoError(t, err)
	assert.False(t, wrote)

	dir, _ := m.Read()
	assert.Equal(t, filepath.Dir(exe), dir)
}
