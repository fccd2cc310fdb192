package cmd

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateLegacy(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		rest    []string
		ok      bool
	}{
		{
			name:    "access flags",
			args:    []string{"-file", "C:/apps/tool.exe", "-allow", "false", "-rule_type", "out"},
			command: "access",
			rest:    []string{"--file", "C:/apps/tool.exe", "--allow", "false", "--rule-type", "out"},
			ok:      true,
		},
		{
			name:    "equals form",
			args:    []string{"-file=x.exe", "-allow=true"},
			command: "access",
			rest:    []string{"--file=x.exe", "--allow=true"},
			ok:      true,
		},
		{
			name:    "shell handler",
			args:    []string{"-c", "denyAccess,in", "C:/apps/tool.exe"},
			command: "shell",
			rest:    []string{"-c", "denyAccess,in", "C:/apps/tool.exe"},
			ok:      true,
		},
		{name: "install", args: []string{"-install"}, command: "install", ok: true},
		{name: "uninstall", args: []string{"-uninstall"}, command: "uninstall", ok: true},
		{name: "open config", args: []string{"-config"}, command: "config", rest: []string{"edit"}, ok: true},
		{name: "subcommand", args: []string{"access", "--file", "x"}},
		{name: "long flag", args: []string{"--help"}},
		{name: "short help", args: []string{"-h"}},
		{name: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, rest, ok := TranslateLegacy(tt.args)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.command, command)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestNewFlagSet_UnderscoreAlias(t *testing.T) {
	var opts Options
	var ruleType string
	fs := newFlagSet("test", &opts)
	fs.StringVar(&ruleType, "rule-type", "", "")

	help, err := parseFlags(fs, []string{"--rule_type", "in", "--config", "/tmp/x.hcl", "-v"})
	assert.NoError(t, err)
	assert.False(t, help)
	assert.Equal(t, "in", ruleType)
	assert.Equal(t, "/tmp/x.hcl", opts.ConfigPath)
	assert.True(t, opts.Verbose)
}

func TestParseFlags_Help(t *testing.T) {
	opts := Options{Err: io.Discard}
	fs := newFlagSet("test", &opts)

	help, err := parseFlags(fs, []string{"--help"})
	assert.NoError(t, err)
	assert.True(t, help)
}
