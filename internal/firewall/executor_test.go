package firewall

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/pywall/internal/host"
	"grimm.is/pywall/internal/logging"
)

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Output: io.Discard})
}

// exitError produces a genuine *exec.ExitError with status 1.
func exitError(t *testing.T) error {
	t.Helper()
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "exit 1")
	} else {
		cmd = exec.Command("sh", "-c", "exit 1")
	}
	err := cmd.Run()
	var ee *exec.ExitError
	require.True(t, errors.As(err, &ee))
	return err
}

func expect(m *host.MockRunner, c Command, out string, err error) {
	args := make([]interface{}, 0, len(c.Args)+1)
	args = append(args, c.Name)
	for _, a := range c.Args {
		args = append(args, a)
	}
	m.On("Run", args...).Return([]byte(out), err).Once()
}

func TestExecuteContinuesAfterFailure(t *testing.T) {
	cmds, err := NewBuilder().BuildAll(Deny, RuleBoth, appFile)
	require.NoError(t, err)

	m := new(host.MockRunner)
	expect(m, cmds[0], "Ok.", nil)
	expect(m, cmds[1], "The requested operation requires elevation.", exitError(t))

	outcomes := NewExecutor(m, WithExecutorLogger(quietLogger())).Execute(context.Background(), cmds)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "Ok.", outcomes[0].Output)

	var failed *CommandFailedError
	require.True(t, errors.As(outcomes[1].Err, &failed))
	assert.Equal(t, 1, failed.ExitCode)
	assert.False(t, failed.TimedOut)
	assert.Contains(t, failed.Output, "elevation")
	m.AssertExpectations(t)
}

func TestExecuteDeleteOfMissingRuleSucceeds(t *testing.T) {
	allow, err := NewBuilder().Build(Allow, In, appFile)
	require.NoError(t, err)
	deny, err := NewBuilder().Build(Deny, In, appFile)
	require.NoError(t, err)

	m := new(host.MockRunner)
	expect(m, allow, "No rules match the specified criteria.", exitError(t))
	expect(m, deny, "No rules match the specified criteria.", exitError(t))

	outcomes := NewExecutor(m, WithExecutorLogger(quietLogger())).Execute(context.Background(), []Command{allow, deny})
	assert.True(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
}

func TestExecuteClassifiesUnexpectedErrors(t *testing.T) {
	cmd, _ := NewBuilder().Build(Deny, Out, appFile)
	m := new(host.MockRunner)
	expect(m, cmd, "", exec.ErrNotFound)

	outcomes := NewExecutor(m, WithExecutorLogger(quietLogger())).Execute(context.Background(), []Command{cmd})
	var unexpected *UnexpectedError
	require.True(t, errors.As(outcomes[0].Err, &unexpected))
	assert.ErrorIs(t, outcomes[0].Err, exec.ErrNotFound)
}

// blockingRunner waits for its context like a hung process would.
type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, _ string, _ ...string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExecuteTimesOut(t *testing.T) {
	cmd, _ := NewBuilder().Build(Deny, In, appFile)
	e := NewExecutor(blockingRunner{}, WithTimeout(20*time.Millisecond), WithExecutorLogger(quietLogger()))

	outcomes := e.Execute(context.Background(), []Command{cmd})
	var failed *CommandFailedError
	require.True(t, errors.As(outcomes[0].Err, &failed))
	assert.True(t, failed.TimedOut)
}

func TestExecuteCancelled(t *testing.T) {
	cmd, _ := NewBuilder().Build(Deny, In, appFile)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := NewExecutor(blockingRunner{}, WithExecutorLogger(quietLogger())).Execute(ctx, []Command{cmd})
	var unexpected *UnexpectedError
	assert.True(t, errors.As(outcomes[0].Err, &unexpected))
}
