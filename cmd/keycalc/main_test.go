package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errout)
	err := cmd.Execute()
	return out.String(), errout.String(), err
}

func TestRootArgs(t *testing.T) {
	out, _, err := run(t, "", "2+3*4", "2*3+4", "0-5", "1/3")
	require.NoError(t, err)
	assert.Equal(t, "14\n10\n-5\n0.333333333333\n", out)
}

func TestRootEcho(t *testing.T) {
	out, _, err := run(t, "", "--echo", "2+3*4")
	require.NoError(t, err)
	assert.Equal(t, "2 3 4 * + : 14\n", out)
}

func TestRootFailures(t *testing.T) {
	out, errout, err := run(t, "", "5/0", "7", "1+")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "7\n", out)
	assert.Contains(t, errout, "5/0: 2: division of 5 by 0")
	assert.Contains(t, errout, "1+:")
}

func TestRootStdin(t *testing.T) {
	out, _, err := run(t, "1 +\n2\n")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestRootStdinLines(t *testing.T) {
	out, _, err := run(t, "1+1\n\n2*3\n", "-n")
	require.NoError(t, err)
	assert.Equal(t, "2\n6\n", out)
}

func TestRootInFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(name, []byte("10/4\n9-10\n"), 0o600))
	out, _, err := run(t, "", "--in", name, "-n", "8*8")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n-1\n64\n", out)
}

func TestRootMissingFile(t *testing.T) {
	_, _, err := run(t, "", "--in", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKeys(t *testing.T) {
	out, _, err := run(t, "", "keys", "12+34C5=")
	require.NoError(t, err)
	assert.Equal(t, "12+5 = 17\n", out)
}

func TestKeysSeveral(t *testing.T) {
	out, _, err := run(t, "", "keys", "2+3", "*4 =")
	require.NoError(t, err)
	assert.Equal(t, "2+3*4 = 14\n", out)
}

func TestKeysError(t *testing.T) {
	out, _, err := run(t, "", "keys", "5/0=")
	require.NoError(t, err)
	assert.Equal(t, "5/0 = Error\n2: division of 5 by 0\n", out)
}

func TestKeysTrace(t *testing.T) {
	out, _, err := run(t, "", "keys", "--trace", "1+2=")
	require.NoError(t, err)
	assert.Equal(t, "1 | 0\n1+ | 0\n1+2 | 0\n1+2 | 3\n", out)
}

func TestKeysMaxLen(t *testing.T) {
	out, _, err := run(t, "", "keys", "--max-len", "3", "12345=")
	require.NoError(t, err)
	assert.Equal(t, "123 = 123\n", out)
}

func TestKeysUnknown(t *testing.T) {
	_, _, err := run(t, "", "keys", "1+x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key 'x'")
}

func TestKeysNeedsArgs(t *testing.T) {
	_, _, err := run(t, "", "keys")
	assert.Error(t, err)
}

func TestServeBadConfig(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(name, []byte("bogus: true\n"), 0o600))
	_, _, err := run(t, "", "serve", "--config", name)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
