package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRunCheck_ValidFilesReturnNil(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfigFile(t, dir, "base.yaml", "host: localhost\nport: 5432\n")

	assert.NoError(t, runCheck([]string{path}))
}

func TestRunCheck_MalformedYAMLReturnsExitCode2(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfigFile(t, dir, "bad.yaml", "host: [unterminated\n")

	err := runCheck([]string{path})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestRunCheck_MissingFileReturnsExitCode2(t *testing.T) {
	t.Parallel()

	err := runCheck([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}
