package access

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/pywall/internal/config"
	"grimm.is/pywall/internal/logging"
)

func TestPolicyFromStore(t *testing.T) {
	s := config.New(filepath.Join(t.TempDir(), "Config.hcl"),
		config.WithLogger(logging.New(logging.Config{Output: io.Discard})))
	require.NoError(t, s.EnsureDefault())
	require.NoError(t, s.Set(config.SectionFiletype, config.KeyAcceptedTypes, ".exe, .msi"))
	require.NoError(t, s.Set(config.SectionFiletype, config.KeyBlacklistedNames, "setup"))
	require.NoError(t, s.Set(config.SectionFiletype, config.KeyRecursive, "False"))

	p, err := PolicyFromStore(s)
	require.NoError(t, err)
	assert.Equal(t, []string{".exe", ".msi"}, p.AcceptedSuffixes)
	assert.Equal(t, []string{"setup"}, p.BlacklistedStems)
	assert.False(t, p.Recursive)
	assert.False(t, p.ExactSuffix)
}

func TestPolicyFromStoreResetsInvalidBoolean(t *testing.T) {
	s := config.New(filepath.Join(t.TempDir(), "Config.hcl"),
		config.WithLogger(logging.New(logging.Config{Output: io.Discard})))
	require.NoError(t, s.EnsureDefault())
	require.NoError(t, s.Set(config.SectionFiletype, config.KeyRecursive, "sometimes"))

	p, err := PolicyFromStore(s)
	require.NoError(t, err)
	assert.True(t, p.Recursive)

	v, err := s.Get(config.SectionFiletype, config.KeyRecursive)
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

type failingSettings struct {
	values map[string]string
	log    *logging.Logger
}

func (f *failingSettings) GetList(section, key string) (config.List, error) {
	return config.ParseList(f.values[key]), nil
}

func (f *failingSettings) GetBool(section, key string) (bool, error) {
	return strconv.ParseBool(f.values[key])
}

func (f *failingSettings) Set(section, key, value string) error {
	return errors.New("read-only file system")
}

func (f *failingSettings) Schema() config.Schema   { return config.DefaultSchema() }
func (f *failingSettings) Logger() *logging.Logger { return f.log }

func TestPolicyResetFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	s := &failingSettings{
		values: map[string]string{
			config.KeyAcceptedTypes: ".exe",
			config.KeyRecursive:     "sometimes",
			config.KeyExactSuffix:   "false",
		},
		log: logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf}),
	}

	p, err := policyFrom(s)
	require.NoError(t, err)
	assert.True(t, p.Recursive)
	assert.Contains(t, buf.String(), "failed to reset setting to default")
	assert.Contains(t, buf.String(), "read-only file system")
}
