package privilege

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/pywall/internal/logging"
)

type fakeRelaunch struct {
	exe  string
	args []string
	env  []string
	err  error
}

func (f *fakeRelaunch) run(exe string, args, env []string) error {
	f.exe, f.args, f.env = exe, args, env
	return f.err
}

func newTestGate(f *fakeRelaunch, exitCode *int, elevated bool) *Gate {
	return New(
		WithLogger(logging.New(logging.Config{Output: io.Discard})),
		WithElevationCheck(func() bool { return elevated }),
		WithRelauncher(f.run),
		WithExit(func(code int) { *exitCode = code }),
		WithArgs([]string{"access", "--file", "app.exe"}),
	)
}

func TestIsElevated(t *testing.T) {
	code := -1
	assert.True(t, newTestGate(&fakeRelaunch{}, &code, true).IsElevated())
	assert.False(t, newTestGate(&fakeRelaunch{}, &code, false).IsElevated())
}

func TestElevateAndRestartExitsOnSuccess(t *testing.T) {
	t.Setenv(ElevatedEnv, "")
	f := &fakeRelaunch{}
	code := -1

	err := newTestGate(f, &code, false).ElevateAndRestart()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, f.exe)
	assert.Equal(t, []string{"access", "--file", "app.exe"}, f.args)
	assert.Contains(t, f.env, ElevatedEnv+"=1")
}

func TestElevateAndRestartDenied(t *testing.T) {
	t.Setenv(ElevatedEnv, "")
	f := &fakeRelaunch{err: errors.New("The operation was canceled by the user.")}
	code := -1

	err := newTestGate(f, &code, false).ElevateAndRestart()
	var denied *ElevationDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, -1, code, "must not exit when relaunch failed")
}

func TestElevateAndRestartRefusesLoop(t *testing.T) {
	t.Setenv(ElevatedEnv, "1")
	f := &fakeRelaunch{}
	code := -1

	err := newTestGate(f, &code, false).ElevateAndRestart()
	var denied *ElevationDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Empty(t, f.exe)
	assert.Equal(t, -1, code)
}
