package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magicshell/cmd/magictest/internal/golden"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(golden.NewConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--test-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestMagictest_RecordRunList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.magic"), []byte("%%echo\nhi\n%%end\n"), 0600))

	_, err := execute(t, dir, "record", "hello")
	require.NoError(t, err)

	_, err = execute(t, dir, "run", "hello")
	require.NoError(t, err)

	out, err := execute(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = execute(t, dir, "run-all")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS hello")

	out, err = execute(t, dir, "diff", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "No differences found")
}

func TestMagictest_RunFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.magic"), []byte("%%echo\nhi\n%%end\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.expected"), []byte("bye\n"), 0600))

	_, err := execute(t, dir, "run", "hello")
	assert.ErrorIs(t, err, golden.ErrMismatch)
}
