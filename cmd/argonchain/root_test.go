package main

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/MrEthical07/argonchain"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedPasswords(t *testing.T, n int, initial string, salts ...string) []string {
	t.Helper()

	cfg := argonchain.LegacyConfig()
	cfg.Cost.Time = 1
	cfg.Cost.Memory = 64
	cfg.Cost.Parallelism = 1
	cfg.Salts = salts

	g, err := argonchain.New().WithConfig(cfg).Build()
	require.NoError(t, err)
	defer g.Close()

	res, err := g.Run(context.Background(), n, initial)
	require.NoError(t, err)
	return res.Passwords
}

func TestGenerateFinalPassword(t *testing.T) {
	args := append([]string{"-n", "3", "-i", "seed", "-s", "s1", "-s", "s2"}, fastArgs...)
	out, _, err := execute(t, nil, args...)
	require.NoError(t, err)

	want := expectedPasswords(t, 3, "seed", "s1", "s2")
	assert.Contains(t, out, "Final Generated Password: "+want[2])
}

func TestGeneratePromptsForMissingInputs(t *testing.T) {
	p := &fakePrompter{
		secrets: []string{"seed", "seed", "saltA", "saltA"},
		lines:   []string{"1"},
	}
	out, _, err := execute(t, p, append([]string{"-n", "1"}, fastArgs...)...)
	require.NoError(t, err)

	want := expectedPasswords(t, 1, "seed", "saltA")
	assert.Contains(t, out, want[0])
}

func TestGenerateFromSaltFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salts")
	require.NoError(t, os.WriteFile(path, []byte("s1\n\ns2\n"), 0o600))

	out, _, err := execute(t, nil, append([]string{"-n", "2", "-i", "seed", "-c", path}, fastArgs...)...)
	require.NoError(t, err)

	want := expectedPasswords(t, 2, "seed", "s1", "s2")
	assert.Contains(t, out, want[1])
}

func TestGenerateRequiresIterations(t *testing.T) {
	_, _, err := execute(t, nil, "-i", "seed", "-s", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterations")
}

func TestGenerateRejectsSaltsAndSaltFile(t *testing.T) {
	_, _, err := execute(t, nil, "-n", "1", "-i", "seed", "-s", "a", "-c", "file")
	require.Error(t, err)
}

func TestGenerateRejectsBadPolicy(t *testing.T) {
	args := append([]string{"-n", "1", "-i", "seed", "-s", "a", "-l", "1"}, fastArgs...)
	_, _, err := execute(t, nil, args...)
	require.ErrorIs(t, err, argonchain.ErrInvalidPolicy)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestGenerateRejectsZeroTimeCost(t *testing.T) {
	_, _, err := execute(t, nil, "-n", "1", "-i", "seed", "-s", "a", "--time-cost", "0", "--memory-cost", "64")
	require.ErrorIs(t, err, argonchain.ErrInvalidConfig)
}

func TestGenerateSummaryHidesSecrets(t *testing.T) {
	args := append([]string{"-n", "2", "-i", "my-initial", "-s", "my-salt", "--summary", "-u", "-S", "-l", "16"}, fastArgs...)
	out, _, err := execute(t, nil, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Password Generation Summary")
	assert.Contains(t, out, "Final Password")
	assert.Contains(t, out, "(10 chars)")
	assert.NotContains(t, out, "my-initial")
	assert.NotContains(t, out, "my-salt")
}

func TestGenerateDebugLevelTwoListsPasswords(t *testing.T) {
	args := append([]string{"-n", "2", "-i", "seed", "-s", "a", "--debug-level", "2"}, fastArgs...)
	_, errOut, err := execute(t, nil, args...)
	require.NoError(t, err)

	want := expectedPasswords(t, 2, "seed", "a")
	assert.Contains(t, errOut, "Generated Password 01/2: "+want[0])
	assert.Contains(t, errOut, "Generated Password 02/2: "+want[1])
}

func TestGenerateDebugLevelZeroIsQuiet(t *testing.T) {
	args := append([]string{"-n", "2", "-i", "seed", "-s", "a", "-s", "b", "--min-lower", "1"}, fastArgs...)
	_, errOut, err := execute(t, nil, args...)
	require.NoError(t, err)

	assert.NotContains(t, errOut, "Generated Password")
}

func TestGenerateMetricsOutput(t *testing.T) {
	args := append([]string{"-n", "2", "-i", "seed", "-s", "a", "--metrics"}, fastArgs...)
	_, errOut, err := execute(t, nil, args...)
	require.NoError(t, err)

	assert.Contains(t, errOut, "argonchain_passwords_encoded_total 2")
}

func TestGenerateAuditsToRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	args := append([]string{"-n", "1", "-i", "seed", "-s", "a", "--audit-redis", mr.Addr(), "--audit-stream", "cli:audit"}, fastArgs...)
	_, _, err := execute(t, nil, args...)
	require.NoError(t, err)

	require.True(t, mr.Exists("cli:audit"))
	entries, err := mr.Stream("cli:audit")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGenerateReceiptRoundTrip(t *testing.T) {
	key := filepath.Join(t.TempDir(), "receipt.key")
	require.NoError(t, os.WriteFile(key, []byte(strings.Repeat("k", 32)), 0o600))

	args := append([]string{"-n", "2", "-i", "seed", "-s", "a", "--receipt-key", key, "--receipt-method", "hs256"}, fastArgs...)
	out, _, err := execute(t, nil, args...)
	require.NoError(t, err)

	m := regexp.MustCompile(`Receipt: (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, "missing receipt in %q", out)

	verified, _, err := execute(t, nil, "receipt", "verify", "--method", "hs256", "--key", key, m[1])
	require.NoError(t, err)
	assert.Contains(t, verified, `"n": 2`)
	assert.Contains(t, verified, `"sc": 1`)
}

func TestReceiptVerifyRejectsWrongKey(t *testing.T) {
	dir := t.TempDir()
	key := filepath.Join(dir, "a.key")
	other := filepath.Join(dir, "b.key")
	require.NoError(t, os.WriteFile(key, []byte(strings.Repeat("a", 32)), 0o600))
	require.NoError(t, os.WriteFile(other, []byte(strings.Repeat("b", 32)), 0o600))

	args := append([]string{"-n", "1", "-i", "seed", "-s", "a", "--receipt-key", key, "--receipt-method", "hs256"}, fastArgs...)
	out, _, err := execute(t, nil, args...)
	require.NoError(t, err)
	token := regexp.MustCompile(`Receipt: (\S+)`).FindStringSubmatch(out)[1]

	_, _, err = execute(t, nil, "receipt", "verify", "--method", "hs256", "--key", other, token)
	assert.ErrorContains(t, err, "receipt rejected")
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitInterrupted, exitCode(context.Canceled))
	assert.Equal(t, ExitConfigError, exitCode(argonchain.ErrInvalidConfig))
	assert.Equal(t, ExitError, exitCode(os.ErrPermission))
}

func TestGenerateKeepsCommaInSalt(t *testing.T) {
	args := append([]string{"-n", "2", "-i", "seed", "-s", "a,b", "--summary"}, fastArgs...)
	out, _, err := execute(t, nil, args...)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`Number of Salts\s*│?\s*1\b`), out)
	want := expectedPasswords(t, 2, "seed", "a,b")
	assert.Contains(t, out, want[1])

	split := expectedPasswords(t, 2, "seed", "a", "b")
	assert.NotContains(t, out, split[1])
}

func TestGenerateRejectsPolicyBeforePrompting(t *testing.T) {
	p := &fakePrompter{
		secrets: []string{"seed", "seed", "saltA", "saltA"},
		lines:   []string{"1"},
	}
	_, _, err := execute(t, p, append([]string{"-n", "1", "-l", "1"}, fastArgs...)...)
	require.ErrorIs(t, err, argonchain.ErrInvalidPolicy)

	assert.Len(t, p.secrets, 4, "no secret may be read for an unusable policy")
	assert.Len(t, p.lines, 1)
}

func TestGenerateRejectsCostBeforePrompting(t *testing.T) {
	p := &fakePrompter{secrets: []string{"seed", "seed"}}
	_, _, err := execute(t, p, "-n", "1", "--time-cost", "0", "--memory-cost", "64")
	require.ErrorIs(t, err, argonchain.ErrInvalidConfig)
	assert.Len(t, p.secrets, 2)
}

func TestGenerateWarnsOnRedisWriteFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	// A plain string under the stream key makes every XADD fail.
	require.NoError(t, mr.Set("cli:audit", "not-a-stream"))

	args := append([]string{"-n", "1", "-i", "seed", "-s", "a", "--audit-redis", mr.Addr(), "--audit-stream", "cli:audit"}, fastArgs...)
	_, errOut, err := execute(t, nil, args...)
	require.NoError(t, err)

	assert.Contains(t, errOut, "audit events could not be written to redis")
	assert.Contains(t, errOut, "failed=2")
}
