package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSingleFile(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "note.txt")
	out := filepath.Join(root, "out.csv")
	require.NoError(t, os.WriteFile(in, []byte("alpha alpha beta"), 0o644))

	err := run([]string{"-input", in, "-output", out, "-quiet"})
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestRunVersion(t *testing.T) {
	assert.NoError(t, run([]string{"-version"}))
}

func TestRunMissingPaths(t *testing.T) {
	err := run([]string{"-quiet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-input and -output")
}

func TestRunBadConfigPath(t *testing.T) {
	err := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestRunBadFlag(t *testing.T) {
	assert.Error(t, run([]string{"-no-such-flag"}))
}
