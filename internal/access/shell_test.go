package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/pywall/internal/firewall"
)

func TestParseShellCommand(t *testing.T) {
	tests := []struct {
		raw  string
		args []string
		want Request
	}{
		{"allowAccess", []string{`C:\apps\app.exe`}, Request{Path: `C:\apps\app.exe`, Action: firewall.Allow, RuleType: firewall.RuleBoth}},
		{"denyAccess,in", []string{"/opt/app"}, Request{Path: "/opt/app", Action: firewall.Deny, RuleType: firewall.RuleIn}},
		{"denyAccess,OUT", []string{" /opt/app "}, Request{Path: "/opt/app", Action: firewall.Deny, RuleType: firewall.RuleOut}},
		{"allowAccess,", []string{"a"}, Request{Path: "a", Action: firewall.Allow, RuleType: firewall.RuleBoth}},
		{"denyAccess,sideways", []string{"a"}, Request{Path: "a", Action: firewall.Deny, RuleType: "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseShellCommand(tt.raw, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseShellCommandErrors(t *testing.T) {
	var shellErr *ShellCommandError

	_, err := ParseShellCommand("blockEverything", []string{"a"})
	assert.True(t, errors.As(err, &shellErr))

	_, err = ParseShellCommand("allowAccess,in", nil)
	require.True(t, errors.As(err, &shellErr))
	assert.Equal(t, "missing file path", shellErr.Reason)
}

func TestShellCommandRoundTrip(t *testing.T) {
	raw := ShellCommand(firewall.Deny, firewall.RuleOut)
	assert.Equal(t, "denyAccess,out", raw)

	req, err := ParseShellCommand(raw, []string{"x.exe"})
	require.NoError(t, err)
	assert.Equal(t, firewall.Deny, req.Action)
	assert.Equal(t, firewall.RuleOut, req.RuleType)
}
