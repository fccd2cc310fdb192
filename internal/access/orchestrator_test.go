package access

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"grimm.is/pywall/internal/firewall"
	"grimm.is/pywall/internal/host"
	"grimm.is/pywall/internal/logging"
	"grimm.is/pywall/internal/privilege"
	"grimm.is/pywall/internal/targets"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(path string, p targets.Policy) ([]targets.File, error) {
	args := m.Called(path, p)
	files, _ := args.Get(0).([]targets.File)
	return files, args.Error(1)
}

type mockGate struct {
	mock.Mock
}

func (m *mockGate) IsElevated() bool {
	return m.Called().Bool(0)
}

func (m *mockGate) ElevateAndRestart() error {
	return m.Called().Error(0)
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) Notify(title, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
}

func (r *recordingNotifier) NotifyBlocking(title, body string) bool {
	r.Notify(title, body)
	return true
}

var exePolicy = targets.Policy{AcceptedSuffixes: []string{".exe"}}

func quiet() *logging.Logger {
	return logging.New(logging.Config{Output: io.Discard})
}

func exitError(t *testing.T) error {
	t.Helper()
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "exit 1")
	} else {
		cmd = exec.Command("sh", "-c", "exit 1")
	}
	return cmd.Run()
}

func expectRun(m *host.MockRunner, action firewall.Action, dir firewall.Direction, path string, out string, err error) {
	c, _ := firewall.NewBuilder().Build(action, dir, targets.NewFile(path))
	args := []interface{}{c.Name}
	for _, a := range c.Args {
		args = append(args, a)
	}
	m.On("Run", args...).Return([]byte(out), err).Once()
}

type fixture struct {
	orch     *Orchestrator
	runner   *host.MockRunner
	gate     *mockGate
	notifier *recordingNotifier
}

// newFixture wires a real resolver and executor around a mocked runner and
// privilege gate.
func newFixture(t *testing.T, resolver Resolver) *fixture {
	t.Helper()
	if resolver == nil {
		resolver = targets.NewResolver(targets.WithLogger(quiet()))
	}
	f := &fixture{
		runner:   new(host.MockRunner),
		gate:     new(mockGate),
		notifier: &recordingNotifier{},
	}
	f.orch = New(Deps{
		Policy:   func() (targets.Policy, error) { return exePolicy, nil },
		Resolver: resolver,
		Gate:     f.gate,
		Executor: firewall.NewExecutor(f.runner, firewall.WithExecutorLogger(quiet())),
		Notifier: f.notifier,
		Logger:   quiet(),
	})
	f.orch.newID = func() string { return "op-test" }
	return f
}

func writeExe(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0755))
	return path
}

func TestAccessInvalidRuleTypeAbortsBeforeAnyWork(t *testing.T) {
	resolver := new(mockResolver)
	f := newFixture(t, resolver)

	res, err := f.orch.Access(context.Background(), Request{
		Path:     "app.exe",
		Action:   firewall.Deny,
		RuleType: firewall.RuleType("sideways"),
	})

	var invalid *InvalidRuleTypeError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "sideways", invalid.RuleType)
	assert.Equal(t, StateAborted, res.State)
	assert.Equal(t, OutcomeAborted, res.Outcome)
	assert.Empty(t, res.Files)
	assert.Equal(t, []string{"Rule type is invalid"}, f.notifier.titles)

	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	f.gate.AssertNotCalled(t, "IsElevated")
	assert.Empty(t, f.runner.Calls)
}

func TestAccessInvalidAction(t *testing.T) {
	f := newFixture(t, new(mockResolver))
	_, err := f.orch.Access(context.Background(), Request{Path: "x", Action: "maybe", RuleType: firewall.RuleIn})
	var invalid *InvalidActionError
	assert.True(t, errors.As(err, &invalid))
}

func TestAccessPartialFailureWhenOneDirectionFails(t *testing.T) {
	exe := writeExe(t, t.TempDir(), "app.exe")
	f := newFixture(t, nil)
	f.gate.On("IsElevated").Return(true)
	expectRun(f.runner, firewall.Deny, firewall.In, exe, "Ok.", nil)
	expectRun(f.runner, firewall.Deny, firewall.Out, exe, "An error occurred.", exitError(t))

	res, err := f.orch.Access(context.Background(), Request{Path: exe, Action: firewall.Deny, RuleType: firewall.RuleBoth})

	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.Equal(t, OutcomePartialFailure, res.Outcome)
	assert.Equal(t, StateDone, res.State)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Succeeded)
	assert.Len(t, res.Files[0].Failures, 1)
	assert.Contains(t, res.Files[0].Failures, firewall.Out)
	assert.Contains(t, res.Body, "app.exe")
	assert.Equal(t, []string{"Operation Partly Failed"}, f.notifier.titles)
	f.runner.AssertExpectations(t)
}

func TestAccessSuccess(t *testing.T) {
	exe := writeExe(t, t.TempDir(), "app.exe")
	f := newFixture(t, nil)
	f.gate.On("IsElevated").Return(true)
	expectRun(f.runner, firewall.Deny, firewall.Out, exe, "Ok.", nil)

	res, err := f.orch.Access(context.Background(), Request{Path: exe, Action: firewall.Deny, RuleType: firewall.RuleOut})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, "op-test", res.ID)
	assert.True(t, res.Files[0].Succeeded)
	assert.Equal(t, "Success", res.Title)
	assert.Contains(t, res.Body, "denying")
	f.runner.AssertExpectations(t)
}

func TestAccessAllowWithoutExistingRuleSucceeds(t *testing.T) {
	exe := writeExe(t, t.TempDir(), "app.exe")
	f := newFixture(t, nil)
	f.gate.On("IsElevated").Return(true)
	expectRun(f.runner, firewall.Allow, firewall.In, exe, "No rules match the specified criteria.", exitError(t))
	expectRun(f.runner, firewall.Allow, firewall.Out, exe, "No rules match the specified criteria.", exitError(t))

	res, err := f.orch.Access(context.Background(), Request{Path: exe, Action: firewall.Allow, RuleType: firewall.RuleBoth})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Contains(t, res.Body, "allowing")
}

func TestAccessContinuesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeExe(t, dir, "first.exe")
	second := writeExe(t, dir, "second.exe")

	resolver := new(mockResolver)
	resolver.On("Resolve", dir, exePolicy).Return([]targets.File{targets.NewFile(first), targets.NewFile(second)}, nil)

	f := newFixture(t, resolver)
	f.gate.On("IsElevated").Return(true)
	expectRun(f.runner, firewall.Deny, firewall.In, first, "", exitError(t))
	expectRun(f.runner, firewall.Deny, firewall.In, second, "Ok.", nil)

	res, err := f.orch.Access(context.Background(), Request{Path: dir, Action: firewall.Deny, RuleType: firewall.RuleIn})
	assert.ErrorIs(t, err, ErrPartialFailure)
	require.Len(t, res.Files, 2)
	assert.False(t, res.Files[0].Succeeded)
	assert.True(t, res.Files[1].Succeeded)
	assert.Len(t, res.Failed(), 1)
	assert.Contains(t, res.Body, "1 of 2")
	f.runner.AssertExpectations(t)
}

func TestAccessResolveErrorsHaveDistinctMessages(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, nil, 0644))
	empty := t.TempDir()

	tests := []struct {
		name  string
		path  string
		title string
	}{
		{"missing", filepath.Join(dir, "gone.exe"), "Path doesn't exist"},
		{"rejected", txt, "Filetype not accepted"},
		{"empty dir", empty, "No accepted filetypes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			res, err := f.orch.Access(context.Background(), Request{Path: tt.path, Action: firewall.Deny, RuleType: firewall.RuleBoth})
			require.Error(t, err)
			assert.Equal(t, OutcomeAborted, res.Outcome)
			assert.Equal(t, tt.title, res.Title)
			f.gate.AssertNotCalled(t, "IsElevated")
			assert.Empty(t, f.runner.Calls)
		})
	}
}

func TestAccessElevationHandoff(t *testing.T) {
	exe := writeExe(t, t.TempDir(), "app.exe")
	f := newFixture(t, nil)
	f.gate.On("IsElevated").Return(false)
	f.gate.On("ElevateAndRestart").Return(nil)

	res, err := f.orch.Access(context.Background(), Request{Path: exe, Action: firewall.Deny, RuleType: firewall.RuleBoth})
	require.NoError(t, err)
	assert.Equal(t, OutcomeElevated, res.Outcome)
	assert.Equal(t, StateElevating, res.State)
	assert.Empty(t, f.runner.Calls)
}

func TestAccessElevationDenied(t *testing.T) {
	exe := writeExe(t, t.TempDir(), "app.exe")
	f := newFixture(t, nil)
	f.gate.On("IsElevated").Return(false)
	f.gate.On("ElevateAndRestart").Return(&privilege.ElevationDeniedError{Err: errors.New("cancelled by user")})

	res, err := f.orch.Access(context.Background(), Request{Path: exe, Action: firewall.Deny, RuleType: firewall.RuleBoth})
	var denied *privilege.ElevationDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, OutcomeAborted, res.Outcome)
	assert.Equal(t, "Elevation Failed", res.Title)
	assert.Empty(t, f.runner.Calls)
}

func TestAccessDryRun(t *testing.T) {
	exe := writeExe(t, t.TempDir(), "app.exe")
	f := newFixture(t, nil)

	res, err := f.orch.Access(context.Background(), Request{Path: exe, Action: firewall.Deny, RuleType: firewall.RuleBoth, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomePlanned, res.Outcome)
	assert.Len(t, res.Commands(), 2)
	f.gate.AssertNotCalled(t, "IsElevated")
	assert.Empty(t, f.runner.Calls)
	assert.Empty(t, f.notifier.titles)
}

func TestAccessCancelledContext(t *testing.T) {
	exe := writeExe(t, t.TempDir(), "app.exe")
	f := newFixture(t, nil)
	f.gate.On("IsElevated").Return(true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := f.orch.Access(ctx, Request{Path: exe, Action: firewall.Deny, RuleType: firewall.RuleBoth})
	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.Len(t, res.Files[0].Failures, 2)
	assert.Empty(t, f.runner.Calls)
}
