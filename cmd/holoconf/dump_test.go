package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDump_WritesYAMLToOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeConfigFile(t, dir, "base.yaml", "host: localhost\nport: 5432\n")
	dest := filepath.Join(dir, "out.yaml")

	err := runDump(context.Background(), newTestLogConfig(), nil, []string{src}, false, "yaml", dest, false)
	require.NoError(t, err)

	out, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(out), "host:")
	assert.Contains(t, string(out), "localhost")
}

func TestRunDump_ResolveDefaultsRedactionOn(t *testing.T) {
	dir := t.TempDir()
	src := writeConfigFile(t, dir, "base.yaml", "password: \"${env:TEST_DUMP_PASSWORD, sensitive=true}\"\n")
	dest := filepath.Join(dir, "out.json")

	t.Setenv("TEST_DUMP_PASSWORD", "hunter2")

	err := runDump(context.Background(), newTestLogConfig(), nil, []string{src}, true, "json", dest, false)
	require.NoError(t, err)

	out, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
	assert.Contains(t, string(out), "REDACTED")
}

func TestRunDump_NoRedactFlagEmitsPlaintext(t *testing.T) {
	dir := t.TempDir()
	src := writeConfigFile(t, dir, "base.yaml", "password: \"${env:TEST_DUMP_PASSWORD2, sensitive=true}\"\n")
	dest := filepath.Join(dir, "out.json")

	t.Setenv("TEST_DUMP_PASSWORD2", "hunter2")

	err := runDump(context.Background(), newTestLogConfig(), nil, []string{src}, true, "json", dest, true)
	require.NoError(t, err)

	out, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(out), "hunter2")
}

func TestRunDump_MissingFileReturnsExitCode2(t *testing.T) {
	t.Parallel()

	err := runDump(context.Background(), newTestLogConfig(), nil,
		[]string{filepath.Join(t.TempDir(), "missing.yaml")}, false, "yaml", "-", false)
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}
