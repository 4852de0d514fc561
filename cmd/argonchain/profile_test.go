package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parsedCmd(t *testing.T, args ...string) (*cobra.Command, *options) {
	t.Helper()

	o := defaultOptions()
	cmd := &cobra.Command{Use: "test"}
	o.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, o
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestApplyProfileReadsFile(t *testing.T) {
	path := writeProfile(t, "time-cost: 4\nmemory-cost: 2048\nuppercase: true\nlength: 20\nsalt-file: /tmp/salts\n")
	cmd, o := parsedCmd(t, "--profile", path)

	require.NoError(t, applyProfile(cmd, o))
	assert.Equal(t, uint32(4), o.timeCost)
	assert.Equal(t, uint32(2048), o.memoryCost)
	assert.True(t, o.uppercase)
	assert.Equal(t, 20, o.length)
	assert.Equal(t, "/tmp/salts", o.saltFile)
	assert.Equal(t, uint8(1), o.parallelism, "unset keys keep flag defaults")
}

func TestApplyProfileFlagsWin(t *testing.T) {
	path := writeProfile(t, "time-cost: 4\nlength: 20\n")
	cmd, o := parsedCmd(t, "--profile", path, "--time-cost", "9")

	require.NoError(t, applyProfile(cmd, o))
	assert.Equal(t, uint32(9), o.timeCost)
	assert.Equal(t, 20, o.length)
}

func TestApplyProfileEnvOverridesFile(t *testing.T) {
	path := writeProfile(t, "length: 20\n")
	t.Setenv("ARGONCHAIN_LENGTH", "24")
	t.Setenv("ARGONCHAIN_MIN_DIGITS", "3")
	cmd, o := parsedCmd(t, "--profile", path)

	require.NoError(t, applyProfile(cmd, o))
	assert.Equal(t, 24, o.length)
	assert.Equal(t, 3, o.minDigits)
}

func TestApplyProfileSaltsFlagSuppressesProfileSaltFile(t *testing.T) {
	path := writeProfile(t, "salt-file: /tmp/salts\n")
	cmd, o := parsedCmd(t, "--profile", path, "-s", "a")

	require.NoError(t, applyProfile(cmd, o))
	assert.Empty(t, o.saltFile)
	assert.Equal(t, []string{"a"}, o.salts)
}

func TestApplyProfileMissingFile(t *testing.T) {
	cmd, o := parsedCmd(t, "--profile", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, applyProfile(cmd, o))
}

func TestApplyProfileParallelismRange(t *testing.T) {
	path := writeProfile(t, "parallelism: 300\n")
	cmd, o := parsedCmd(t, "--profile", path)
	assert.ErrorIs(t, applyProfile(cmd, o), errUsage)
}

func TestProfileInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")

	out, _, err := execute(t, nil, "profile", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var pf profileFile
	require.NoError(t, yaml.Unmarshal(data, &pf))
	assert.Equal(t, uint32(20), pf.TimeCost)
	assert.Equal(t, uint32(1024000), pf.MemoryCost)
	assert.Equal(t, 12, pf.Length)

	// The written profile loads back cleanly.
	cmd, o := parsedCmd(t, "--profile", path)
	require.NoError(t, applyProfile(cmd, o))
	assert.Equal(t, uint32(20), o.timeCost)

	_, _, err = execute(t, nil, "profile", "init", path)
	assert.ErrorIs(t, err, errUsage)

	_, _, err = execute(t, nil, "profile", "init", "--force", path)
	assert.NoError(t, err)
}
